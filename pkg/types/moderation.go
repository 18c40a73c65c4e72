package types

import "time"

type ProjectModeration struct {
	ID          string           `db:"id" json:"id"`
	ProjectID   string           `db:"project_id" json:"projectId"`
	ModeratorID string           `db:"moderator_id" json:"moderatorId"`
	Decision    ModerationStatus `db:"decision" json:"decision"`
	Comment     *string          `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
