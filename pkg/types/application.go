package types

import "time"

// Application is a volunteer's request to join a project.
type Application struct {
	ID          string       `db:"id" json:"id"`
	ProjectID   string       `db:"project_id" json:"projectId"`
	VolunteerID string       `db:"volunteer_id" json:"volunteerId"`
	Message     *string      `db:"message" json:"message,omitempty"`
	Status      ReviewStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}
