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

const taskTableName = "tasks"

var taskColumns = utils.StructTagValues(types.Task{})

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Task(ctx context.Context, taskID string) (*types.Task, error) {
	query, args, err := psql().
		Select(taskColumns...).
		From(taskTableName).
		Where(sq.Eq{"id": taskID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task query: %w", err)
	}

	var task types.Task
	err = pgxscan.Get(ctx, r.pool, &task, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepository) selectTasks(ctx context.Context, where sq.Sqlizer, orderBy ...string) ([]*types.Task, error) {
	query, args, err := psql().
		Select(taskColumns...).
		From(taskTableName).
		Where(where).
		OrderBy(orderBy...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks query: %w", err)
	}

	tasks := make([]*types.Task, 0)
	err = pgxscan.Select(ctx, r.pool, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) TasksByProject(ctx context.Context, projectID string) ([]*types.Task, error) {
	return r.selectTasks(ctx, sq.Eq{"project_id": projectID}, "created_at ASC")
}

func (r *TaskRepository) TasksByProjects(ctx context.Context, projectIDs []string) ([]*types.Task, error) {
	if len(projectIDs) == 0 {
		return []*types.Task{}, nil
	}
	return r.selectTasks(ctx, sq.Eq{"project_id": projectIDs}, "deadline ASC NULLS LAST", "created_at ASC")
}

func (r *TaskRepository) TasksByVolunteer(ctx context.Context, volunteerID string) ([]*types.Task, error) {
	return r.selectTasks(ctx, sq.Eq{"volunteer_id": volunteerID}, "deadline ASC NULLS LAST", "created_at ASC")
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *types.Task) error {
	now := time.Now()
	task.ID = utils.NanoID()
	task.Status = types.TaskStatusPending
	task.SpentCents = 0
	task.CreatedAt = now
	task.UpdatedAt = now

	query, args, err := psql().
		Insert(taskTableName).
		SetMap(utils.StructToMap(task)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert task query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create task")
}

// UpdateTask persists the task; spent_cents is only changed by report review.
func (r *TaskRepository) UpdateTask(ctx context.Context, task *types.Task) error {
	task.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(taskTableName).
		SetMap(utils.StructToMap(task, "id", "project_id", "spent_cents", "created_at")).
		Where(sq.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update task query for task %s: %w", task.ID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update task")
}

func (r *TaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	query, args, err := psql().Delete(taskTableName).Where(sq.Eq{"id": taskID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete task query for task %s: %w", taskID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete task")
}
