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

const applicationTableName = "applications"

var applicationColumns = utils.StructTagValues(types.Application{})

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) getApplication(ctx context.Context, where sq.Eq) (*types.Application, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var application types.Application
	err = pgxscan.Get(ctx, r.pool, &application, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	return &application, nil
}

func (r *ApplicationRepository) Application(ctx context.Context, applicationID string) (*types.Application, error) {
	return r.getApplication(ctx, sq.Eq{"id": applicationID})
}

func (r *ApplicationRepository) ApplicationFor(ctx context.Context, projectID, volunteerID string) (*types.Application, error) {
	return r.getApplication(ctx, sq.Eq{"project_id": projectID, "volunteer_id": volunteerID})
}

func (r *ApplicationRepository) selectApplications(ctx context.Context, where sq.Sqlizer) ([]*types.Application, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications query: %w", err)
	}

	applications := make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, nil
}

func (r *ApplicationRepository) ApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Application, error) {
	return r.selectApplications(ctx, sq.Eq{"volunteer_id": volunteerID})
}

func (r *ApplicationRepository) ApplicationsByProjects(ctx context.Context, projectIDs []string) ([]*types.Application, error) {
	if len(projectIDs) == 0 {
		return []*types.Application{}, nil
	}
	return r.selectApplications(ctx, sq.Eq{"project_id": projectIDs})
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, application *types.Application) error {
	now := time.Now()
	application.ID = utils.NanoID()
	application.Status = types.ReviewStatusPending
	application.CreatedAt = now
	application.UpdatedAt = now

	query, args, err := psql().
		Insert(applicationTableName).
		SetMap(utils.StructToMap(application)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrApplicationExists
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// SetApplicationStatus moves a pending application to its final status.
func (r *ApplicationRepository) SetApplicationStatus(ctx context.Context, applicationID string, status types.ReviewStatus) error {
	query, args, err := psql().
		Update(applicationTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": applicationID, "status": types.ReviewStatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate application status query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrAlreadyReviewed
	}

	return nil
}

func (r *ApplicationRepository) DeleteApplication(ctx context.Context, applicationID string) error {
	query, args, err := psql().Delete(applicationTableName).Where(sq.Eq{"id": applicationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete application query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete application")
}
