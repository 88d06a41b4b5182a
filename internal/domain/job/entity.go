package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID uuid.UUID

	// RecruiterID is nil when the posting recruiter was demoted; the job
	// deliberately survives with a dangling owner.
	RecruiterID *uuid.UUID

	Title          string
	Description    string
	RequiredSkills []string
	CompanyName    string
	RecruiterName  string
	Location       string
	Salary         string
	Type           string
	Experience     string
	Remote         bool
	IsActive       bool
	PostedAt       time.Time
}

// OwnedBy reports whether the given user still owns this job.
func (j Job) OwnedBy(userID uuid.UUID) bool {
	return j.RecruiterID != nil && *j.RecruiterID == userID
}

// SearchFilter collects the catalog search predicates. Zero values mean
// "not filtered".
type SearchFilter struct {
	Query      string
	Location   string
	Remote     *bool
	Type       string
	Experience string
	Skills     []string
}
