package types

import "time"

type Donation struct {
	ID          string    `db:"id" json:"id"`
	ProjectID   string    `db:"project_id" json:"projectId"`
	DonorID     *string   `db:"donor_id" json:"donorId,omitempty"`
	AmountCents int64     `db:"amount_cents" json:"amountCents"`
	IsAnonymous bool      `db:"is_anonymous" json:"isAnonymous"`
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PublicDonation is what anyone may see about a donation on a project page.
type PublicDonation struct {
	ID          string    `json:"id"`
	DonorName   string    `json:"donorName"`
	AmountCents int64     `json:"amountCents"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

const AnonymousDonorName = "Anonymous"

// DonationReceipt pairs a booked donation with the project after booking.
type DonationReceipt struct {
	Donation *Donation `json:"donation"`
	Project  *Project  `json:"project"`
}
