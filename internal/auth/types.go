package auth

import (
	"errors"
	"regexp"
)

// usernamePattern: alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// IsValidUsername checks if a username meets format requirements.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Role is an authorisation tier.
type Role string

const (
	// RoleViewer can list things, extensions and read health.
	RoleViewer Role = "viewer"

	// RoleOperator can also run console commands.
	RoleOperator Role = "operator"

	// RoleAdmin can also add and remove things and read the audit trail.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of assignable roles.
var ValidRoles = []Role{RoleViewer, RoleOperator, RoleAdmin}

// IsValidRole returns true if r is one of ValidRoles.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Account is a configured API login.
type Account struct {
	Username     string
	PasswordHash string // Argon2id PHC string
	Role         Role
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenInvalid       = errors.New("auth: invalid token")
	ErrForbidden          = errors.New("auth: insufficient permissions")
	ErrInvalidAccount     = errors.New("auth: invalid account")
)
