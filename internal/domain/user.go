package domain

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/gocart-dev/gocart/internal/errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	Id       uuid.UUID
	Email    string
	FullName string
	PassHash string
	Role     Role
}

type Credentials struct {
	Email    string
	Password string
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[@$!%*?&#]`)
)

// ValidatePassword enforces the composite password policy.
// Runs before hashing so a rejected password never touches storage.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return errors.BadRequest("Password must be at least 8 characters long")
	case !upperRe.MatchString(password):
		return errors.BadRequest("Password must include at least one uppercase letter")
	case !lowerRe.MatchString(password):
		return errors.BadRequest("Password must include at least one lowercase letter")
	case !digitRe.MatchString(password):
		return errors.BadRequest("Password must include at least one digit")
	case !specialRe.MatchString(password):
		return errors.BadRequest("Password must include at least one special character")
	}
	return nil
}
