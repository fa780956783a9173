package domain

import "time"

// Role determines what a caller may see and change.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the domain model for accounts that sign in to the helpdesk.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
