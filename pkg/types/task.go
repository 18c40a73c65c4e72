package types

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress},
	TaskStatusInProgress: {TaskStatusPending, TaskStatusCompleted},
	TaskStatusCompleted:  {TaskStatusInProgress},
}

func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Task struct {
	ID          string     `db:"id" json:"id"`
	ProjectID   string     `db:"project_id" json:"projectId"`
	VolunteerID *string    `db:"volunteer_id" json:"volunteerId,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	Deadline    *time.Time `db:"deadline" json:"deadline,omitempty"`
	BudgetCents *int64     `db:"budget_cents" json:"budgetCents,omitempty"`
	SpentCents  int64      `db:"spent_cents" json:"spentCents"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

func (t *Task) AssignedTo(userID string) bool {
	return t.VolunteerID != nil && *t.VolunteerID == userID
}

func (t *Task) Overdue(now time.Time) bool {
	return t.Deadline != nil && t.Status != TaskStatusCompleted && now.After(*t.Deadline)
}
