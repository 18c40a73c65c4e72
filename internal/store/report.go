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

const reportTableName = "reports"

var reportColumns = utils.StructTagValues(types.Report{})

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) Report(ctx context.Context, reportID string) (*types.Report, error) {
	query, args, err := psql().
		Select(reportColumns...).
		From(reportTableName).
		Where(sq.Eq{"id": reportID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report query: %w", err)
	}

	var report types.Report
	err = pgxscan.Get(ctx, r.pool, &report, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	return &report, nil
}

func (r *ReportRepository) selectReports(ctx context.Context, where sq.Sqlizer) ([]*types.Report, error) {
	query, args, err := psql().
		Select(reportColumns...).
		From(reportTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reports query: %w", err)
	}

	reports := make([]*types.Report, 0)
	err = pgxscan.Select(ctx, r.pool, &reports, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return reports, nil
}

func (r *ReportRepository) ReportsByTask(ctx context.Context, taskID string) ([]*types.Report, error) {
	return r.selectReports(ctx, sq.Eq{"task_id": taskID})
}

func (r *ReportRepository) ReportsByTasks(ctx context.Context, taskIDs []string) ([]*types.Report, error) {
	if len(taskIDs) == 0 {
		return []*types.Report{}, nil
	}
	return r.selectReports(ctx, sq.Eq{"task_id": taskIDs})
}

func (r *ReportRepository) ReportsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Report, error) {
	return r.selectReports(ctx, sq.Eq{"volunteer_id": volunteerID})
}

func (r *ReportRepository) CreateReport(ctx context.Context, report *types.Report) error {
	report.ID = utils.NanoID()
	report.Status = types.ReviewStatusPending
	report.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(reportTableName).
		SetMap(utils.StructToMap(report)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert report query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create report")
}

// ReviewReport stores the review outcome. An approved report completes its
// task and books the reported expense against it.
func (r *ReportRepository) ReviewReport(ctx context.Context, report *types.Report) error {
	now := time.Now()
	report.ReviewedAt = &now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin report review tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	reportQuery, reportArgs, err := psql().
		Update(reportTableName).
		Set("status", report.Status).
		Set("review_comment", report.ReviewComment).
		Set("reviewed_by", report.ReviewedBy).
		Set("reviewed_at", report.ReviewedAt).
		Where(sq.Eq{"id": report.ID, "status": types.ReviewStatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate report review query: %w", err)
	}

	tag, err := tx.Exec(ctx, reportQuery, reportArgs...)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrAlreadyReviewed
	}

	if report.Status == types.ReviewStatusApproved {
		taskQuery, taskArgs, err := psql().
			Update(taskTableName).
			Set("status", types.TaskStatusCompleted).
			Set("spent_cents", sq.Expr("spent_cents + ?", utils.PtrInt64(report.AmountSpentCents))).
			Set("updated_at", now).
			Where(sq.Eq{"id": report.TaskID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate task completion query: %w", err)
		}

		_, err = tx.Exec(ctx, taskQuery, taskArgs...)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit report review tx: %w", err)
	}

	return nil
}
