package types

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusFunding    ProjectStatus = "funding"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusFunding, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo allows only forward moves through the funding lifecycle.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	switch s {
	case ProjectStatusFunding:
		return next == ProjectStatusInProgress
	case ProjectStatusInProgress:
		return next == ProjectStatusCompleted
	}
	return false
}

type ModerationStatus string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRejected ModerationStatus = "rejected"
)

type Project struct {
	ID                   string           `db:"id" json:"id"`
	CoordinatorID        string           `db:"coordinator_id" json:"coordinatorId"`
	CategoryID           *string          `db:"category_id" json:"categoryId,omitempty"`
	Title                string           `db:"title" json:"title"`
	Description          string           `db:"description" json:"description"`
	Location             *string          `db:"location" json:"location,omitempty"`
	TargetAmountCents    int64            `db:"target_amount_cents" json:"targetAmountCents"`
	CollectedAmountCents int64            `db:"collected_amount_cents" json:"collectedAmountCents"`
	Status               ProjectStatus    `db:"status" json:"status"`
	ModerationStatus     ModerationStatus `db:"moderation_status" json:"moderationStatus"`
	StartDate            *time.Time       `db:"start_date" json:"startDate,omitempty"`
	EndDate              *time.Time       `db:"end_date" json:"endDate,omitempty"`
	CreatedAt            time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updatedAt"`
}

// RemainingCents is the amount still needed to reach the target, never negative.
func (p *Project) RemainingCents() int64 {
	remaining := p.TargetAmountCents - p.CollectedAmountCents
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *Project) FundingPercent() int {
	if p.TargetAmountCents <= 0 {
		return 0
	}
	percent := int(p.CollectedAmountCents * 100 / p.TargetAmountCents)
	if percent > 100 {
		return 100
	}
	return percent
}

func (p *Project) IsPublished() bool {
	return p.ModerationStatus == ModerationStatusApproved
}

// AcceptsDonations reports whether a donation of amountCents can be booked.
func (p *Project) AcceptsDonations(amountCents int64) error {
	if !p.IsPublished() || p.Status != ProjectStatusFunding {
		return ErrProjectNotAcceptingDonations
	}
	if amountCents > p.RemainingCents() {
		return ErrDonationExceedsRemaining
	}
	return nil
}

// ProjectEdit is the set of fields a coordinator may change on a project.
type ProjectEdit struct {
	CategoryID        *string
	Title             string
	Description       string
	Location          *string
	TargetAmountCents int64
	StartDate         *time.Time
	EndDate           *time.Time
}

// Apply copies the edit onto p, which must be the current row. A rejected
// project goes back into the moderation queue, and a project whose new target
// equals the collected amount is fully funded.
func (e *ProjectEdit) Apply(p *Project) error {
	if e.TargetAmountCents < p.CollectedAmountCents {
		return ErrTargetBelowCollected
	}

	p.CategoryID = e.CategoryID
	p.Title = e.Title
	p.Description = e.Description
	p.Location = e.Location
	p.TargetAmountCents = e.TargetAmountCents
	p.StartDate = e.StartDate
	p.EndDate = e.EndDate

	if p.ModerationStatus == ModerationStatusRejected {
		p.ModerationStatus = ModerationStatusPending
	}
	if p.Status == ProjectStatusFunding && p.CollectedAmountCents > 0 && p.RemainingCents() == 0 {
		p.Status = ProjectStatusInProgress
	}
	return nil
}

// AcceptsApplications is true for published projects that are still running.
func (p *Project) AcceptsApplications() bool {
	return p.IsPublished() && p.Status != ProjectStatusCompleted
}

type ProjectFilter struct {
	Status        ProjectStatus    `form:"status"`
	CategoryID    string           `form:"category"`
	Query         string           `form:"q"`
	Moderation    ModerationStatus `form:"-"`
	CoordinatorID string           `form:"-"`
	Oldest        bool             `form:"-"`
	Limit         uint64           `form:"limit"`
	Offset        uint64           `form:"offset"`
}

// ProjectFinance is the public financial summary of a project.
type ProjectFinance struct {
	ProjectID            string `json:"projectId"`
	TargetAmountCents    int64  `json:"targetAmountCents"`
	CollectedAmountCents int64  `json:"collectedAmountCents"`
	RemainingCents       int64  `json:"remainingCents"`
	FundingPercent       int    `json:"fundingPercent"`
	DonationCount        int    `json:"donationCount"`
	TaskBudgetCents      int64  `json:"taskBudgetCents"`
	SpentCents           int64  `json:"spentCents"`
	BalanceCents         int64  `json:"balanceCents"`
}

// ProjectDetail is the public view of a single project.
type ProjectDetail struct {
	*Project
	CategoryName    string `json:"categoryName,omitempty"`
	CoordinatorName string `json:"coordinatorName"`
	FundingPercent  int    `json:"fundingPercent"`
	RemainingCents  int64  `json:"remainingCents"`
}

// ModerationResult is returned after a moderator decides on a project.
type ModerationResult struct {
	Project    *Project           `json:"project"`
	Moderation *ProjectModeration `json:"moderation"`
}
