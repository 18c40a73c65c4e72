package types

import "time"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Report is a volunteer's completion evidence for a task.
type Report struct {
	ID               string       `db:"id" json:"id"`
	TaskID           string       `db:"task_id" json:"taskId"`
	VolunteerID      string       `db:"volunteer_id" json:"volunteerId"`
	Content          string       `db:"content" json:"content"`
	AmountSpentCents *int64       `db:"amount_spent_cents" json:"amountSpentCents,omitempty"`
	ReceiptNote      *string      `db:"receipt_note" json:"receiptNote,omitempty"`
	Status           ReviewStatus `db:"status" json:"status"`
	ReviewComment    *string      `db:"review_comment" json:"reviewComment,omitempty"`
	ReviewedBy       *string      `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time   `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
}
