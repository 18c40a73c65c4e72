package types

import "time"

type ProjectCategory struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Icon         *string   `db:"icon" json:"icon,omitempty"`
	DisplayOrder int       `db:"display_order" json:"displayOrder"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
