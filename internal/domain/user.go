package domain

import "time"

// Role names assigned to users.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is the domain model for registered accounts. PasswordHash is opaque
// and never serialized outward.
type User struct {
	ID           string
	Email        string
	MobileNumber string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []string
	Active       bool
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// Username returns the identifier the account authenticates with.
func (u *User) Username() string {
	if u.Email != "" {
		return u.Email
	}
	return u.MobileNumber
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
