package types

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user with this username or email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserBlocked           = errors.New("user is blocked")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrReportNotFound        = errors.New("report not found")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationExists     = errors.New("already applied to this project")
	ErrProjectReportNotFound = errors.New("project report not found")

	ErrProjectNotAcceptingDonations = errors.New("project is not accepting donations")
	ErrDonationExceedsRemaining     = errors.New("donation exceeds the remaining target amount")
	ErrTargetBelowCollected         = errors.New("target cannot be lower than the amount already collected")
	ErrInvalidStatusTransition      = errors.New("invalid status transition")
	ErrAlreadyReviewed              = errors.New("already reviewed")
)
