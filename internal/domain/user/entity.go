package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

// Role is a closed set. Anything outside it is rejected at the boundary
// instead of being compared ad hoc as a string.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	Skills       []string
	ResumeKey    string

	ResetTokenHash string
	ResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized strips credential material before the user leaves the service.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.ResetTokenHash = ""
	u.ResetExpiresAt = nil
	return u
}

func (u User) HasResume() bool {
	return u.ResumeKey != ""
}
