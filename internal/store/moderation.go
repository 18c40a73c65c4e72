package store

import (
	"context"
	"fmt"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const moderationTableName = "project_moderations"

var moderationColumns = utils.StructTagValues(types.ProjectModeration{})

type ModerationRepository struct {
	pool *pgxpool.Pool
}

func NewModerationRepository(pool *pgxpool.Pool) *ModerationRepository {
	return &ModerationRepository{pool: pool}
}

// Moderate records the decision and applies it to the project in one transaction.
func (r *ModerationRepository) Moderate(ctx context.Context, moderation *types.ProjectModeration) error {
	now := time.Now()
	moderation.ID = utils.NanoID()
	moderation.CreatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin moderation tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	updateQuery, updateArgs, err := psql().
		Update(projectTableName).
		Set("moderation_status", moderation.Decision).
		Set("updated_at", now).
		Where(sq.Eq{"id": moderation.ProjectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate project moderation update: %w", err)
	}

	tag, err := tx.Exec(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to update project moderation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrProjectNotFound
	}

	insertQuery, insertArgs, err := psql().
		Insert(moderationTableName).
		SetMap(utils.StructToMap(moderation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate moderation insert: %w", err)
	}

	_, err = tx.Exec(ctx, insertQuery, insertArgs...)
	if err != nil {
		return fmt.Errorf("failed to insert moderation record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit moderation tx: %w", err)
	}

	return nil
}

func (r *ModerationRepository) ModerationsByProject(ctx context.Context, projectID string) ([]*types.ProjectModeration, error) {
	query, args, err := psql().
		Select(moderationColumns...).
		From(moderationTableName).
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate moderations query: %w", err)
	}

	moderations := make([]*types.ProjectModeration, 0)
	err = pgxscan.Select(ctx, r.pool, &moderations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moderations: %w", err)
	}

	return moderations, nil
}
