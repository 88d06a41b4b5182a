package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Status string

const (
	StatusPending            Status = "pending"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusHired              Status = "hired"
	StatusRejected           Status = "rejected"
)

// ParseStatus validates an incoming status value. The legacy "approved"
// value is still accepted from older clients and maps to
// interview_scheduled; it is not a distinct state.
func ParseStatus(s string) (Status, bool) {
	if s == "approved" {
		return StatusInterviewScheduled, true
	}
	switch Status(s) {
	case StatusPending, StatusInterviewScheduled, StatusHired, StatusRejected:
		return Status(s), true
	default:
		return "", false
	}
}

func (s Status) Terminal() bool {
	return s == StatusHired || s == StatusRejected
}

// CanTransitionTo enforces the lifecycle:
// pending -> interview_scheduled -> {hired, rejected}, pending -> rejected.
// Terminal states admit no further transitions.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusInterviewScheduled || next == StatusRejected
	case StatusInterviewScheduled:
		return next == StatusHired || next == StatusRejected
	default:
		return false
	}
}

type Application struct {
	ID     uuid.UUID
	UserID uuid.UUID
	JobID  uuid.UUID
	Status Status

	FitScore int

	// ResumeKey is the applicant's resume object at the time of applying.
	// Later resume uploads never change it.
	ResumeKey string

	Notes         string
	InterviewDate *time.Time
	InterviewLink string
	AppliedAt     time.Time
}
