package client

import "volunteerhub/internal/validate"

// Request bodies accepted by the API.
type (
	RegisterInput      = validate.RegisterInput
	ProfileInput       = validate.ProfileInput
	ProjectInput       = validate.ProjectInput
	ModerationInput    = validate.ModerationInput
	TaskInput          = validate.TaskInput
	TaskUpdateInput    = validate.TaskUpdateInput
	ReportInput        = validate.ReportInput
	DonationInput      = validate.DonationInput
	ContactInput       = validate.ContactInput
	ProjectReportInput = validate.ProjectReportInput
)
