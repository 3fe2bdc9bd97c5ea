package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleUser         Role = "user"
	RoleSupportStaff Role = "supportStaff"
	RoleAdmin        Role = "admin"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleSupportStaff, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for accounts. Accounts are immutable after
// creation; there are no account-management flows.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
