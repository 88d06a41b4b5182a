package migration

import (
	"context"
	"fmt"

	"campus-hire/internal/database"
)

// Apply brings the schema up to date. Statements are idempotent so the
// runner is safe to execute on every boot; an advisory lock serializes
// concurrent instances.
func Apply(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	const lockKey = 582930417

	if _, err := db.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return err
	}
	defer func() {
		_, _ = db.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		skills TEXT[] NOT NULL DEFAULT '{}',
		resume_key TEXT,
		reset_token_hash TEXT,
		reset_expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS login_history (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		logged_in_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_login_history_user ON login_history(user_id, logged_in_at)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		recruiter_id UUID REFERENCES users(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		required_skills TEXT[] NOT NULL DEFAULT '{}',
		company_name TEXT NOT NULL,
		recruiter_name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		salary TEXT NOT NULL DEFAULT '',
		job_type TEXT NOT NULL DEFAULT '',
		experience TEXT NOT NULL DEFAULT '',
		remote BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		posted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_recruiter ON jobs(recruiter_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_active_posted ON jobs(is_active, posted_at DESC)`,

	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		job_id UUID NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		fit_score INT NOT NULL DEFAULT 0,
		resume_key TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		interview_date TIMESTAMPTZ,
		interview_link TEXT,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT applications_user_job_unique UNIQUE (user_id, job_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id)`,

	`CREATE TABLE IF NOT EXISTS admin_invites (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		created_by UUID,
		expires_at TIMESTAMPTZ NOT NULL,
		used BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS admin_logs (
		id UUID PRIMARY KEY,
		actor_id UUID NOT NULL,
		action TEXT NOT NULL,
		target_id UUID,
		metadata JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_logs_actor ON admin_logs(actor_id, created_at DESC)`,
}
