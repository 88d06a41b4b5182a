package repository

import (
	"context"
	"errors"
	"time"

	"campus-hire/internal/database"
	"campus-hire/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	Create(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	ExistsVerifiedByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]user.User, error)

	AppendLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (user.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	UpdateResume(ctx context.Context, id uuid.UUID, resumeKey string, skills []string) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_verified, skills,
	COALESCE(resume_key, ''), COALESCE(reset_token_hash, ''), reset_expires_at,
	created_at, updated_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, is_verified, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.IsVerified, u.Skills,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsVerifiedByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1) AND is_verified)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) AppendLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO login_history (user_id, logged_in_at) VALUES ($1, $2)`, id, at)
	return err
}

func (r *PostgresUserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token_hash = $2, reset_expires_at = $3, updated_at = now() WHERE id = $1`,
		id, tokenHash, expiresAt)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token_hash = NULL, reset_expires_at = NULL, updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *PostgresUserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token_hash = $1 AND reset_expires_at > $2`,
		tokenHash, now)
	return scanUser(row)
}

// ResetPassword sets the new hash and nulls the token material in one
// statement, so a second concurrent reset cannot reuse the token.
func (r *PostgresUserRepository) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $2, reset_token_hash = NULL, reset_expires_at = NULL, updated_at = now()
		 WHERE id = $1 AND reset_token_hash IS NOT NULL`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdateResume(ctx context.Context, id uuid.UUID, resumeKey string, skills []string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET resume_key = $2, skills = $3, updated_at = now() WHERE id = $1`,
		id, resumeKey, skills)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsVerified, &u.Skills,
		&u.ResumeKey, &u.ResetTokenHash, &u.ResetExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ UserRepository = (*PostgresUserRepository)(nil)
