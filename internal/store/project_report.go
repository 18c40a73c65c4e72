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

const projectReportTableName = "project_reports"

var projectReportColumns = utils.StructTagValues(types.ProjectReport{})

type ProjectReportRepository struct {
	pool *pgxpool.Pool
}

func NewProjectReportRepository(pool *pgxpool.Pool) *ProjectReportRepository {
	return &ProjectReportRepository{pool: pool}
}

// ProjectReport retrieves a single report by ID
func (r *ProjectReportRepository) ProjectReport(ctx context.Context, id string) (*types.ProjectReport, error) {
	query, args, err := psql().
		Select(projectReportColumns...).
		From(projectReportTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project report query: %w", err)
	}

	var report types.ProjectReport
	err = pgxscan.Get(ctx, r.pool, &report, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch project report: %w", err)
	}
	return &report, nil
}

// ProjectReportsByProject retrieves all reports for a project, newest first
func (r *ProjectReportRepository) ProjectReportsByProject(ctx context.Context, projectID string) ([]*types.ProjectReport, error) {
	query, args, err := psql().
		Select(projectReportColumns...).
		From(projectReportTableName).
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project reports query: %w", err)
	}

	reports := make([]*types.ProjectReport, 0)
	err = pgxscan.Select(ctx, r.pool, &reports, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project reports: %w", err)
	}
	return reports, nil
}

// CreateProjectReport inserts a new report record
func (r *ProjectReportRepository) CreateProjectReport(ctx context.Context, report *types.ProjectReport) error {
	if report.ID == "" {
		report.ID = utils.NanoID()
	}
	report.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(projectReportTableName).
		SetMap(utils.StructToMap(report)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert project report query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create project report")
}

// DeleteProjectReport removes a report record
func (r *ProjectReportRepository) DeleteProjectReport(ctx context.Context, id string) error {
	query, args, err := psql().
		Delete(projectReportTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete project report query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete project report")
}
