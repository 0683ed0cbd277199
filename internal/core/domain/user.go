package domain

import "time"

// Role is the authorization level attached to a user.
type Role string

const (
	RoleUser     Role = "USER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
	// RoleUnassigned is the explicit zero role for users that registered
	// without a recognised role.
	RoleUnassigned Role = ""
)

// NormalizeRole maps caller-supplied role input to an enumerated Role.
// Only USER and PROVIDER are accepted from registration input; anything else
// (ADMIN included) downgrades to RoleUnassigned. Callers cannot self-assign
// elevated privileges.
func NormalizeRole(input string) Role {
	switch Role(input) {
	case RoleUser:
		return RoleUser
	case RoleProvider:
		return RoleProvider
	default:
		return RoleUnassigned
	}
}

// User lifecycle statuses. Deletion is soft: the record stays, the status flips.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// User models a registered identity.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Fullname     string    `json:"fullname,omitempty"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"`
	Email        string    `json:"email,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Address      string    `json:"address,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}
