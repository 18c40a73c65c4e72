package types

import "time"

type Role string

const (
	RoleVolunteer   Role = "volunteer"
	RoleCoordinator Role = "coordinator"
	RoleDonor       Role = "donor"
	RoleAdmin       Role = "admin"
	RoleModerator   Role = "moderator"
)

var AllRoles = []Role{RoleVolunteer, RoleCoordinator, RoleDonor, RoleAdmin, RoleModerator}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SelfService reports whether the role can be picked at registration.
func (r Role) SelfService() bool {
	return r == RoleVolunteer || r == RoleCoordinator || r == RoleDonor
}

// CanModerate reports whether the role passes the project publication gate.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	FullName     *string    `db:"full_name" json:"fullName,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	BirthDate    *time.Time `db:"birth_date" json:"birthDate,omitempty"`
	City         *string    `db:"city" json:"city,omitempty"`
	Bio          *string    `db:"bio" json:"bio,omitempty"`
	IsVerified   bool       `db:"is_verified" json:"isVerified"`
	IsBlocked    bool       `db:"is_blocked" json:"isBlocked"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// DisplayName falls back to the username when no full name is set.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

type UserFilter struct {
	Role    Role   `form:"role"`
	Blocked *bool  `form:"blocked"`
	Query   string `form:"q"`
	Limit   uint64 `form:"limit"`
	Offset  uint64 `form:"offset"`
}

// Session mirrors the keys the browser client keeps for the logged in user.
type Session struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	UserRole   Role   `json:"userRole,omitempty"`
	Username   string `json:"username,omitempty"`
	UserID     string `json:"userId,omitempty"`
}
