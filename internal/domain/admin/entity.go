package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInviteInvalid = errors.New("invite token invalid, expired, or already used")

// Invite is a single-use elevation grant bound to an email address.
type Invite struct {
	ID        uuid.UUID
	Email     string
	Token     string
	CreatedBy uuid.UUID
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Audit log actions. New actions are appended here so the log stays
// greppable; free-form strings are not written.
const (
	ActionDeleteUser = "DELETE_USER"
	ActionDeleteJob  = "DELETE_JOB"
	ActionChangeRole = "CHANGE_ROLE"
	ActionSendInvite = "SEND_INVITE"
)

// LogEntry is an append-only audit record. Targets are weak references:
// deleting the target never deletes the entry.
type LogEntry struct {
	ID        uuid.UUID
	ActorID   uuid.UUID
	Action    string
	TargetID  *uuid.UUID
	Metadata  map[string]any
	CreatedAt time.Time
}
