package domain

import "time"

// Role is the closed set of platform roles.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleRider    Role = "RIDER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole returns the Role matching the given value.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleCustomer, RoleVendor, RoleRider, RoleAdmin:
		return Role(value), true
	}
	return "", false
}

// User is the domain model for platform accounts of every role.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
