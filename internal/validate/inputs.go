package validate

import (
	"errors"
	"strings"

	"volunteerhub/pkg/types"
)

type RegisterInput struct {
	Username        string     `json:"username" form:"username" validate:"required,min=3,max=32,username"`
	Email           string     `json:"email" form:"email" validate:"required,email,max=254"`
	Password        string     `json:"password" form:"password" validate:"required,min=8,bcryptlen,password"`
	ConfirmPassword string     `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
	Role            types.Role `json:"role" form:"role" validate:"required,oneof=volunteer coordinator donor"`
	FullName        string     `json:"fullName" form:"fullName" validate:"max=120"`
	Phone           string     `json:"phone" form:"phone" validate:"omitempty,phone"`
	BirthDate       string     `json:"birthDate" form:"birthDate" validate:"omitempty,date,notfuture"`
	City            string     `json:"city" form:"city" validate:"max=120"`
}

func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.City = strings.TrimSpace(in.City)
}

func (in *RegisterInput) Validate() map[string]string {
	in.Normalize()
	return Struct(in)
}

type LoginInput struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (in *LoginInput) Validate() map[string]string {
	in.Login = strings.TrimSpace(in.Login)
	return Struct(in)
}

type ProfileInput struct {
	FullName  string `json:"fullName" form:"fullName" validate:"max=120"`
	Phone     string `json:"phone" form:"phone" validate:"omitempty,phone"`
	BirthDate string `json:"birthDate" form:"birthDate" validate:"omitempty,date,notfuture"`
	City      string `json:"city" form:"city" validate:"max=120"`
	Bio       string `json:"bio" form:"bio" validate:"max=2000"`
}

func (in *ProfileInput) Validate() map[string]string {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.City = strings.TrimSpace(in.City)
	in.Bio = strings.TrimSpace(in.Bio)
	return Struct(in)
}

type ProjectInput struct {
	Title             string `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description       string `json:"description" form:"description" validate:"required,min=10,max=10000"`
	CategoryID        string `json:"categoryId" form:"categoryId" validate:"max=64"`
	Location          string `json:"location" form:"location" validate:"max=200"`
	TargetAmountCents int64  `json:"targetAmountCents" form:"targetAmountCents" validate:"required,gt=0"`
	StartDate         string `json:"startDate" form:"startDate" validate:"omitempty,date"`
	EndDate           string `json:"endDate" form:"endDate" validate:"omitempty,date"`
}

func (in *ProjectInput) Validate() map[string]string {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Location = strings.TrimSpace(in.Location)

	errs := Struct(in)
	if in.StartDate != "" && in.EndDate != "" {
		start, startErr := ParseDate(in.StartDate)
		end, endErr := ParseDate(in.EndDate)
		if startErr == nil && endErr == nil && end.Before(start) {
			errs = Merge(errs, map[string]string{"endDate": "End date cannot be before the start date."})
		}
	}
	return errs
}

type ProjectStatusInput struct {
	Status types.ProjectStatus `json:"status" form:"status" validate:"required,oneof=funding in_progress completed"`
}

type ModerationInput struct {
	Decision types.ModerationStatus `json:"decision" form:"decision" validate:"required,oneof=approved rejected"`
	Comment  string                 `json:"comment" form:"comment" validate:"max=2000"`
}

func (in *ModerationInput) Validate() map[string]string {
	in.Comment = strings.TrimSpace(in.Comment)
	errs := Struct(in)
	if in.Decision == types.ModerationStatusRejected && in.Comment == "" {
		errs = Merge(errs, map[string]string{"comment": "Explain why the project is rejected."})
	}
	return errs
}

type TaskInput struct {
	ProjectID   string  `json:"projectId" form:"projectId" validate:"required"`
	Title       string  `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" form:"description" validate:"max=5000"`
	Deadline    string  `json:"deadline" form:"deadline" validate:"omitempty,date,notpast"`
	BudgetCents *int64  `json:"budgetCents" form:"budgetCents" validate:"omitempty,gte=0"`
	VolunteerID *string `json:"volunteerId" form:"volunteerId"`
}

func (in *TaskInput) Validate() map[string]string {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return Struct(in)
}

// TaskUpdateInput is a partial update; nil fields stay unchanged. An empty
// volunteerId unassigns the task.
type TaskUpdateInput struct {
	Title       *string           `json:"title" form:"title" validate:"omitempty,min=3,max=200"`
	Description *string           `json:"description" form:"description" validate:"omitempty,max=5000"`
	Deadline    *string           `json:"deadline" form:"deadline" validate:"omitempty,date"`
	BudgetCents *int64            `json:"budgetCents" form:"budgetCents" validate:"omitempty,gte=0"`
	VolunteerID *string           `json:"volunteerId" form:"volunteerId"`
	Status      *types.TaskStatus `json:"status" form:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

func (in *TaskUpdateInput) Validate() map[string]string {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	return Struct(in)
}

type TaskStatusInput struct {
	Status types.TaskStatus `json:"status" form:"status" validate:"required,oneof=pending in_progress completed"`
}

type ReportInput struct {
	Content          string `json:"content" form:"content" validate:"required,min=10,max=10000"`
	AmountSpentCents *int64 `json:"amountSpentCents" form:"amountSpentCents" validate:"omitempty,gte=0"`
	ReceiptNote      string `json:"receiptNote" form:"receiptNote" validate:"max=1000"`
}

func (in *ReportInput) Validate() map[string]string {
	in.Content = strings.TrimSpace(in.Content)
	in.ReceiptNote = strings.TrimSpace(in.ReceiptNote)
	return Struct(in)
}

type ReviewInput struct {
	Comment string `json:"comment" form:"comment" validate:"max=2000"`
}

type ApplicationInput struct {
	Message string `json:"message" form:"message" validate:"max=2000"`
}

type DonationInput struct {
	ProjectID   string `json:"projectId" form:"projectId" validate:"required"`
	AmountCents int64  `json:"amountCents" form:"amountCents" validate:"required,gt=0"`
	IsAnonymous bool   `json:"isAnonymous" form:"isAnonymous"`
	Comment     string `json:"comment" form:"comment" validate:"max=500"`
}

// Validate checks the input and, when the target project is known, that the
// amount does not exceed what the project still needs.
func (in *DonationInput) Validate(project *types.Project) map[string]string {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Comment = strings.TrimSpace(in.Comment)

	errs := Struct(in)
	if _, bad := errs["amountCents"]; bad || project == nil {
		return errs
	}
	return Merge(errs, DonationAmount(project, in.AmountCents))
}

// DonationAmount applies the project side of donation validation.
func DonationAmount(project *types.Project, amountCents int64) map[string]string {
	return DonationError(project.AcceptsDonations(amountCents))
}

// DonationError turns a donation refusal into field errors. Other errors yield nil.
func DonationError(err error) map[string]string {
	switch {
	case errors.Is(err, types.ErrDonationExceedsRemaining):
		return map[string]string{"amountCents": "Amount exceeds the remaining target of the project."}
	case errors.Is(err, types.ErrProjectNotAcceptingDonations):
		return map[string]string{"projectId": "This project is not accepting donations."}
	}
	return nil
}

type ContactInput struct {
	Name    string `json:"name" form:"name" validate:"required,max=120"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=5000"`
}

func (in *ContactInput) Validate() map[string]string {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	return Struct(in)
}

type ProjectReportInput struct {
	Title   string `json:"title" form:"title" validate:"required,min=3,max=200"`
	Content string `json:"content" form:"content" validate:"required,min=10,max=20000"`
}

func (in *ProjectReportInput) Validate() map[string]string {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	return Struct(in)
}
