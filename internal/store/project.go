package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectTableName = "projects"

var projectColumns = utils.StructTagValues(types.Project{})

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Project(ctx context.Context, projectID string) (*types.Project, error) {
	query, args, err := psql().
		Select(projectColumns...).
		From(projectTableName).
		Where(sq.Eq{"id": projectID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project query: %w", err)
	}

	var project = new(types.Project)
	err = pgxscan.Get(ctx, r.pool, project, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	return project, nil
}

func projectsQuery(filter types.ProjectFilter) sq.SelectBuilder {
	order := "created_at DESC"
	if filter.Oldest {
		order = "created_at ASC"
	}

	builder := psql().
		Select(projectColumns...).
		From(projectTableName).
		OrderBy(order, "id").
		Limit(pageLimit(filter.Limit)).
		Offset(filter.Offset)

	if filter.Moderation != "" {
		builder = builder.Where(sq.Eq{"moderation_status": filter.Moderation})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.CategoryID != "" {
		builder = builder.Where(sq.Eq{"category_id": filter.CategoryID})
	}
	if filter.CoordinatorID != "" {
		builder = builder.Where(sq.Eq{"coordinator_id": filter.CoordinatorID})
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"location": pattern},
		})
	}

	return builder
}

func (r *ProjectRepository) Projects(ctx context.Context, filter types.ProjectFilter) ([]*types.Project, error) {
	query, args, err := projectsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate projects query: %w", err)
	}

	projects := make([]*types.Project, 0)
	err = pgxscan.Select(ctx, r.pool, &projects, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) ProjectsByIDs(ctx context.Context, projectIDs []string) ([]*types.Project, error) {
	if len(projectIDs) == 0 {
		return []*types.Project{}, nil
	}

	query, args, err := psql().
		Select(projectColumns...).
		From(projectTableName).
		Where(sq.Eq{"id": projectIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate projects-by-ids query: %w", err)
	}

	var projects []*types.Project
	err = pgxscan.Select(ctx, r.pool, &projects, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects by ids: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project *types.Project) error {
	now := time.Now()
	project.ID = utils.NanoID()
	project.CollectedAmountCents = 0
	project.Status = types.ProjectStatusFunding
	project.ModerationStatus = types.ModerationStatusPending
	project.CreatedAt = now
	project.UpdatedAt = now

	query, args, err := psql().Insert(projectTableName).SetMap(utils.StructToMap(project)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert project query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create project")
}

// projectEditUpdate writes the edited columns of after. status and
// moderation_status are only written when Apply changed them, so a concurrent
// moderation decision or donation is never overwritten. collected_amount_cents
// is owned by the donation workflow.
func projectEditUpdate(before, after *types.Project) sq.UpdateBuilder {
	builder := psql().
		Update(projectTableName).
		Set("category_id", after.CategoryID).
		Set("title", after.Title).
		Set("description", after.Description).
		Set("location", after.Location).
		Set("target_amount_cents", after.TargetAmountCents).
		Set("start_date", after.StartDate).
		Set("end_date", after.EndDate).
		Set("updated_at", after.UpdatedAt)

	if after.Status != before.Status {
		builder = builder.Set("status", after.Status)
	}
	if after.ModerationStatus != before.ModerationStatus {
		builder = builder.Set("moderation_status", after.ModerationStatus)
	}

	return builder.Where(sq.Eq{"id": after.ID})
}

// EditProject applies edit to the locked project row and returns the result.
// The target is checked against the collected amount inside the transaction.
func (r *ProjectRepository) EditProject(ctx context.Context, projectID string, edit *types.ProjectEdit) (*types.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin project edit tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lockQuery, lockArgs, err := psql().
		Select(projectColumns...).
		From(projectTableName).
		Where(sq.Eq{"id": projectID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project lock query: %w", err)
	}

	var before = new(types.Project)
	err = pgxscan.Get(ctx, tx, before, lockQuery, lockArgs...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}

	after := *before
	if err := edit.Apply(&after); err != nil {
		return nil, err
	}
	after.UpdatedAt = time.Now()

	query, args, err := projectEditUpdate(before, &after).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update project query for project %s: %w", projectID, err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit project edit tx: %w", err)
	}

	return &after, nil
}

func projectStatusUpdate(projectID string, from, to types.ProjectStatus, now time.Time) sq.UpdateBuilder {
	return psql().
		Update(projectTableName).
		Set("status", to).
		Set("updated_at", now).
		Where(sq.Eq{
			"id":                projectID,
			"status":            from,
			"moderation_status": types.ModerationStatusApproved,
		}).
		Suffix("RETURNING " + strings.Join(projectColumns, ", "))
}

// SetProjectStatus moves a published project from one status to another. It
// fails with ErrInvalidStatusTransition when the stored status is no longer from.
func (r *ProjectRepository) SetProjectStatus(ctx context.Context, projectID string, from, to types.ProjectStatus) (*types.Project, error) {
	query, args, err := projectStatusUpdate(projectID, from, to, time.Now()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project status query for project %s: %w", projectID, err)
	}

	var project = new(types.Project)
	err = pgxscan.Get(ctx, r.pool, project, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	query, args, err := psql().Delete(projectTableName).Where(sq.Eq{"id": projectID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete project query for project %s: %w", projectID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete project")
}

func (r *ProjectRepository) Stats(ctx context.Context) (*types.StatsData, error) {
	query := `
		SELECT
			COALESCE((SELECT sum(amount_cents) FROM donations), 0) AS total_raised_cents,
			(SELECT count(*) FROM projects WHERE moderation_status = 'approved' AND collected_amount_cents >= target_amount_cents) AS projects_funded,
			(SELECT count(*) FROM projects WHERE status = 'completed') AS projects_completed,
			(SELECT count(*) FROM users WHERE role = 'volunteer' AND NOT is_blocked) AS volunteers,
			(SELECT count(*) FROM donations) AS donations`

	var stats struct {
		TotalRaisedCents  int64 `db:"total_raised_cents"`
		ProjectsFunded    int   `db:"projects_funded"`
		ProjectsCompleted int   `db:"projects_completed"`
		Volunteers        int   `db:"volunteers"`
		Donations         int   `db:"donations"`
	}
	err := pgxscan.Get(ctx, r.pool, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch platform stats: %w", err)
	}

	return &types.StatsData{
		TotalRaisedCents:  stats.TotalRaisedCents,
		ProjectsFunded:    stats.ProjectsFunded,
		ProjectsCompleted: stats.ProjectsCompleted,
		Volunteers:        stats.Volunteers,
		Donations:         stats.Donations,
	}, nil
}
