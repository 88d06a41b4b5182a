package repository

import (
	"context"
	"encoding/json"
	"time"

	"campus-hire/internal/database"
	"campus-hire/internal/domain/admin"
	"campus-hire/internal/domain/user"

	"github.com/google/uuid"
)

type AdminRepository interface {
	AppendLog(ctx context.Context, entry admin.LogEntry) error
	ListLogs(ctx context.Context, page, limit int) ([]admin.LogEntry, int64, error)

	CreateInvite(ctx context.Context, inv admin.Invite) error
	// ConsumeInvite marks the invite used and grants role=admin in one
	// transaction. The conditional update closes the double-accept race:
	// exactly one of two concurrent accepts sees rows_affected == 1.
	ConsumeInvite(ctx context.Context, token, email string, userID uuid.UUID, now time.Time) error

	// DeleteUserCascade removes the user and, for recruiters, all their
	// jobs, in one transaction. Applications referencing deleted jobs are
	// left in place and filtered out at query time.
	DeleteUserCascade(ctx context.Context, userID uuid.UUID, isRecruiter bool) error

	// ChangeRole updates the role; when demoting a recruiter the jobs keep
	// existing with recruiter_id nulled, in the same transaction.
	ChangeRole(ctx context.Context, userID uuid.UUID, newRole user.Role, demotingRecruiter bool) error
}

type PostgresAdminRepository struct {
	db database.DB
}

func NewPostgresAdminRepository(db database.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) AppendLog(ctx context.Context, entry admin.LogEntry) error {
	meta := entry.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO admin_logs (id, actor_id, action, target_id, metadata) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.ActorID, entry.Action, entry.TargetID, string(b))
	return err
}

func (r *PostgresAdminRepository) ListLogs(ctx context.Context, page, limit int) ([]admin.LogEntry, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, actor_id, action, target_id, metadata, created_at
		 FROM admin_logs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]admin.LogEntry, 0, limit)
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresAdminRepository) CreateInvite(ctx context.Context, inv admin.Invite) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO admin_invites (id, email, token, created_by, expires_at, used)
		 VALUES ($1, $2, $3, $4, $5, FALSE)`,
		inv.ID, inv.Email, inv.Token, inv.CreatedBy, inv.ExpiresAt)
	return err
}

func (r *PostgresAdminRepository) ConsumeInvite(ctx context.Context, token, email string, userID uuid.UUID, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	n, err := tx.Exec(ctx,
		`UPDATE admin_invites
		 SET used = TRUE
		 WHERE token = $1 AND lower(email) = lower($2) AND used = FALSE AND expires_at > $3`,
		token, email, now)
	if err != nil {
		return err
	}
	if n == 0 {
		return admin.ErrInviteInvalid
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`,
		userID, string(user.RoleAdmin)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresAdminRepository) DeleteUserCascade(ctx context.Context, userID uuid.UUID, isRecruiter bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if isRecruiter {
		if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE recruiter_id = $1`, userID); err != nil {
			return err
		}
	}

	n, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PostgresAdminRepository) ChangeRole(ctx context.Context, userID uuid.UUID, newRole user.Role, demotingRecruiter bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if demotingRecruiter {
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET recruiter_id = NULL WHERE recruiter_id = $1`, userID); err != nil {
			return err
		}
	}

	n, err := tx.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`,
		userID, string(newRole))
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanLogEntry(rows database.Rows) (admin.LogEntry, error) {
	var entry admin.LogEntry
	var raw []byte
	if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetID, &raw, &entry.CreatedAt); err != nil {
		return admin.LogEntry{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entry.Metadata); err != nil {
			return admin.LogEntry{}, err
		}
	}
	return entry, nil
}

var _ AdminRepository = (*PostgresAdminRepository)(nil)
