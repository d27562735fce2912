package domain

import "time"

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleBusiness UserRole = "business"
	RoleAdmin    UserRole = "admin"
)

// User represents a registered user (client, business owner or administrator)
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	PhoneNumber   *string
	Role          UserRole
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin returns true if the user has administrator privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanOwnBusiness returns true if the user is allowed to create businesses
func (u *User) CanOwnBusiness() bool {
	return u.Role == RoleBusiness || u.Role == RoleAdmin
}

// ValidRole returns true if role is one of the known user roles
func ValidRole(role UserRole) bool {
	switch role {
	case RoleClient, RoleBusiness, RoleAdmin:
		return true
	default:
		return false
	}
}
