package types

import "time"

// ProjectReport is a public report a coordinator publishes for a project,
// optionally backed by an uploaded document.
type ProjectReport struct {
	ID                string    `db:"id" json:"id"`
	ProjectID         string    `db:"project_id" json:"projectId"`
	CoordinatorID     string    `db:"coordinator_id" json:"coordinatorId"`
	Title             string    `db:"title" json:"title"`
	Content           string    `db:"content" json:"content"`
	DocumentKey       *string   `db:"document_key" json:"-"`
	DocumentName      *string   `db:"document_name" json:"documentName,omitempty"`
	DocumentSizeBytes *int64    `db:"document_size_bytes" json:"documentSizeBytes,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`

	DocumentURL string `db:"-" json:"documentUrl,omitempty"`
}
