package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-hire/internal/domain/admin"
	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/infrastructure/mailer"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCannotDeleteSelf = errors.New("admins cannot delete their own account")
	ErrInvalidRole      = errors.New("unknown role")
	ErrInvalidEmail     = errors.New("invalid email address")
)

const inviteTTL = 24 * time.Hour

// InviteResult reports a created invite. Warning is set when the invite
// email could not be delivered; the invite itself is stored either way.
type InviteResult struct {
	Invite  admin.Invite
	Warning string
}

type LogsPage struct {
	Entries    []admin.LogEntry
	Total      int64
	Page       int
	TotalPages int64
}

type AdminUsecase interface {
	ListUsers(ctx context.Context) ([]user.User, error)
	ListJobs(ctx context.Context) ([]job.Job, error)

	DeleteUser(ctx context.Context, actor user.User, targetID uuid.UUID) error
	ChangeUserRole(ctx context.Context, actor user.User, targetID uuid.UUID, newRole string) (user.User, error)
	DeleteJob(ctx context.Context, actor user.User, jobID uuid.UUID) error

	SendInvite(ctx context.Context, actor user.User, email string) (InviteResult, error)
	AcceptInvite(ctx context.Context, actor user.User, token string) error

	Logs(ctx context.Context, page, limit int) (LogsPage, error)
}

type Admins struct {
	users      repository.UserRepository
	jobs       repository.JobRepository
	admins     repository.AdminRepository
	mail       mailer.Mailer
	inviteBase string

	now func() time.Time
}

func NewAdminUsecase(users repository.UserRepository, jobs repository.JobRepository, admins repository.AdminRepository, mail mailer.Mailer, inviteBase string) *Admins {
	return &Admins{
		users:      users,
		jobs:       jobs,
		admins:     admins,
		mail:       mail,
		inviteBase: inviteBase,
		now:        time.Now,
	}
}

func (u *Admins) ListUsers(ctx context.Context) ([]user.User, error) {
	all, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]user.User, 0, len(all))
	for _, usr := range all {
		out = append(out, usr.Sanitized())
	}
	return out, nil
}

func (u *Admins) ListJobs(ctx context.Context) ([]job.Job, error) {
	return u.jobs.ListAll(ctx)
}

// DeleteUser writes the audit entry before any destructive work, so a
// crash mid-delete leaves a log pointing at a still-present user rather
// than a deletion nobody recorded. Applications to the target's jobs are
// left orphaned on purpose; listing queries filter them out.
func (u *Admins) DeleteUser(ctx context.Context, actor user.User, targetID uuid.UUID) error {
	if actor.ID == targetID {
		return ErrCannotDeleteSelf
	}

	target, err := u.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := u.admins.AppendLog(ctx, admin.LogEntry{
		ID:       uuid.New(),
		ActorID:  actor.ID,
		Action:   admin.ActionDeleteUser,
		TargetID: &targetID,
		Metadata: map[string]any{
			"target_email": target.Email,
			"target_role":  string(target.Role),
		},
	}); err != nil {
		return err
	}

	return u.admins.DeleteUserCascade(ctx, targetID, target.Role == user.RoleRecruiter)
}

func (u *Admins) ChangeUserRole(ctx context.Context, actor user.User, targetID uuid.UUID, newRole string) (user.User, error) {
	role, ok := user.ParseRole(newRole)
	if !ok {
		return user.User{}, ErrInvalidRole
	}

	target, err := u.users.GetByID(ctx, targetID)
	if err != nil {
		return user.User{}, err
	}
	if target.Role == role {
		return target.Sanitized(), nil
	}

	if err := u.admins.AppendLog(ctx, admin.LogEntry{
		ID:       uuid.New(),
		ActorID:  actor.ID,
		Action:   admin.ActionChangeRole,
		TargetID: &targetID,
		Metadata: map[string]any{
			"from": string(target.Role),
			"to":   string(role),
		},
	}); err != nil {
		return user.User{}, err
	}

	demoting := target.Role == user.RoleRecruiter && role != user.RoleRecruiter
	if err := u.admins.ChangeRole(ctx, targetID, role, demoting); err != nil {
		return user.User{}, err
	}

	target.Role = role
	return target.Sanitized(), nil
}

func (u *Admins) DeleteJob(ctx context.Context, actor user.User, jobID uuid.UUID) error {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	if err := u.admins.AppendLog(ctx, admin.LogEntry{
		ID:       uuid.New(),
		ActorID:  actor.ID,
		Action:   admin.ActionDeleteJob,
		TargetID: &jobID,
		Metadata: map[string]any{
			"title":   j.Title,
			"company": j.CompanyName,
		},
	}); err != nil {
		return err
	}

	return u.jobs.Delete(ctx, jobID)
}

// SendInvite stores a single-use elevation token bound to the email. The
// invite email is best effort: a delivery failure downgrades to a warning
// because the stored invite is already valid.
func (u *Admins) SendInvite(ctx context.Context, actor user.User, email string) (InviteResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return InviteResult{}, ErrInvalidEmail
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return InviteResult{}, ErrInternal
	}

	inv := admin.Invite{
		ID:        uuid.New(),
		Email:     email,
		Token:     hex.EncodeToString(raw),
		CreatedBy: actor.ID,
		ExpiresAt: u.now().UTC().Add(inviteTTL),
	}
	if err := u.admins.CreateInvite(ctx, inv); err != nil {
		return InviteResult{}, err
	}

	if err := u.admins.AppendLog(ctx, admin.LogEntry{
		ID:      uuid.New(),
		ActorID: actor.ID,
		Action:  admin.ActionSendInvite,
		Metadata: map[string]any{
			"invited_email": email,
		},
	}); err != nil {
		return InviteResult{}, err
	}

	result := InviteResult{Invite: inv}
	acceptURL := fmt.Sprintf("%s/admin/accept-invite?token=%s", strings.TrimRight(u.inviteBase, "/"), inv.Token)
	if err := u.mail.SendAdminInvite(ctx, email, acceptURL); err != nil {
		result.Warning = "invite created, but the invitation email failed"
	}
	return result, nil
}

// AcceptInvite grants admin to the calling user. The conditional update in
// the store guarantees a token is consumed at most once even under
// concurrent accepts.
func (u *Admins) AcceptInvite(ctx context.Context, actor user.User, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return admin.ErrInviteInvalid
	}
	return u.admins.ConsumeInvite(ctx, token, actor.Email, actor.ID, u.now().UTC())
}

func (u *Admins) Logs(ctx context.Context, page, limit int) (LogsPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := u.admins.ListLogs(ctx, page, limit)
	if err != nil {
		return LogsPage{}, err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return LogsPage{Entries: entries, Total: total, Page: page, TotalPages: totalPages}, nil
}

var _ AdminUsecase = (*Admins)(nil)
