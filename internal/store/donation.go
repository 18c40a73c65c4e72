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

const donationTableName = "donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

// Donate books a donation against its project. The project row is locked for
// the duration of the transaction so concurrent donations cannot push the
// collected amount past the target. The updated project is returned.
func (r *DonationRepository) Donate(ctx context.Context, donation *types.Donation) (*types.Project, error) {
	now := time.Now()
	donation.ID = utils.NanoID()
	donation.CreatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin donation tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lockQuery, lockArgs, err := psql().
		Select(projectColumns...).
		From(projectTableName).
		Where(sq.Eq{"id": donation.ProjectID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project lock query: %w", err)
	}

	var project = new(types.Project)
	err = pgxscan.Get(ctx, tx, project, lockQuery, lockArgs...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}

	if err := project.AcceptsDonations(donation.AmountCents); err != nil {
		return nil, err
	}

	insertQuery, insertArgs, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	_, err = tx.Exec(ctx, insertQuery, insertArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert donation: %w", err)
	}

	project.CollectedAmountCents += donation.AmountCents
	project.UpdatedAt = now
	if project.RemainingCents() == 0 {
		project.Status = types.ProjectStatusInProgress
	}

	updateQuery, updateArgs, err := psql().
		Update(projectTableName).
		Set("collected_amount_cents", project.CollectedAmountCents).
		Set("status", project.Status).
		Set("updated_at", project.UpdatedAt).
		Where(sq.Eq{"id": project.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate collected amount update: %w", err)
	}

	_, err = tx.Exec(ctx, updateQuery, updateArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to update collected amount: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit donation tx: %w", err)
	}

	return project, nil
}

func (r *DonationRepository) selectDonations(ctx context.Context, where sq.Sqlizer) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	donations := make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	return donations, nil
}

func (r *DonationRepository) DonationsByDonor(ctx context.Context, donorID string) ([]*types.Donation, error) {
	return r.selectDonations(ctx, sq.Eq{"donor_id": donorID})
}

func (r *DonationRepository) DonationsByProject(ctx context.Context, projectID string) ([]*types.Donation, error) {
	return r.selectDonations(ctx, sq.Eq{"project_id": projectID})
}
