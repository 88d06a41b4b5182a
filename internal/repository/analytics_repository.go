package repository

import (
	"context"
	"time"

	"campus-hire/internal/database"
	"campus-hire/internal/domain/admin"

	"github.com/google/uuid"
)

type PlatformMetrics struct {
	TotalUsers        int64
	TotalStudents     int64
	TotalRecruiters   int64
	TotalAdmins       int64
	TotalJobs         int64
	ActiveJobs        int64
	TotalApplications int64
}

type StudentStats struct {
	Applied     int64
	Rejected    int64
	Interviewed int64
}

type RecruiterStats struct {
	JobsPosted   int64
	Applications int64
	Rejected     int64
	Interviews   int64
}

type JobApplicationCount struct {
	JobID        uuid.UUID
	Title        string
	Applications int64
}

type AnalyticsRepository interface {
	PlatformMetrics(ctx context.Context) (PlatformMetrics, error)
	// LoginActivityByWeekday counts logins per day of week in [since, until].
	// Index 0 is Sunday, matching time.Weekday.
	LoginActivityByWeekday(ctx context.Context, since, until time.Time) ([7]int64, error)
	LastLoginAt(ctx context.Context, userID uuid.UUID) (*time.Time, error)

	StudentStats(ctx context.Context, userID uuid.UUID) (StudentStats, error)
	RecruiterStats(ctx context.Context, recruiterID uuid.UUID) (RecruiterStats, error)
	ApplicationsPerJob(ctx context.Context, recruiterID uuid.UUID) ([]JobApplicationCount, error)

	CountAdminActions(ctx context.Context, actorID uuid.UUID) (int64, error)
	RecentLogsByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]admin.LogEntry, error)
}

type PostgresAnalyticsRepository struct {
	db database.DB
}

func NewPostgresAnalyticsRepository(db database.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) PlatformMetrics(ctx context.Context) (PlatformMetrics, error) {
	var m PlatformMetrics
	row := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM users WHERE role = 'recruiter'),
			(SELECT COUNT(*) FROM users WHERE role = 'admin'),
			(SELECT COUNT(*) FROM jobs),
			(SELECT COUNT(*) FROM jobs WHERE is_active),
			(SELECT COUNT(*) FROM applications)`)
	if err := row.Scan(
		&m.TotalUsers, &m.TotalStudents, &m.TotalRecruiters, &m.TotalAdmins,
		&m.TotalJobs, &m.ActiveJobs, &m.TotalApplications,
	); err != nil {
		return PlatformMetrics{}, err
	}
	return m, nil
}

func (r *PostgresAnalyticsRepository) LoginActivityByWeekday(ctx context.Context, since, until time.Time) ([7]int64, error) {
	var out [7]int64
	rows, err := r.db.Query(ctx,
		`SELECT EXTRACT(DOW FROM logged_in_at)::int, COUNT(*)
		 FROM login_history
		 WHERE logged_in_at >= $1 AND logged_in_at <= $2
		 GROUP BY 1`,
		since, until)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var dow int
		var count int64
		if err := rows.Scan(&dow, &count); err != nil {
			return out, err
		}
		if dow >= 0 && dow < 7 {
			out[dow] = count
		}
	}
	return out, rows.Err()
}

func (r *PostgresAnalyticsRepository) LastLoginAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var at *time.Time
	row := r.db.QueryRow(ctx,
		`SELECT MAX(logged_in_at) FROM login_history WHERE user_id = $1`, userID)
	if err := row.Scan(&at); err != nil {
		return nil, err
	}
	return at, nil
}

func (r *PostgresAnalyticsRepository) StudentStats(ctx context.Context, userID uuid.UUID) (StudentStats, error) {
	var s StudentStats
	row := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'interview_scheduled')
		FROM applications WHERE user_id = $1`,
		userID)
	if err := row.Scan(&s.Applied, &s.Rejected, &s.Interviewed); err != nil {
		return StudentStats{}, err
	}
	return s, nil
}

func (r *PostgresAnalyticsRepository) RecruiterStats(ctx context.Context, recruiterID uuid.UUID) (RecruiterStats, error) {
	var s RecruiterStats
	row := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM jobs WHERE recruiter_id = $1),
			COUNT(a.id),
			COUNT(a.id) FILTER (WHERE a.status = 'rejected'),
			COUNT(a.id) FILTER (WHERE a.status = 'interview_scheduled')
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.recruiter_id = $1`,
		recruiterID)
	if err := row.Scan(&s.JobsPosted, &s.Applications, &s.Rejected, &s.Interviews); err != nil {
		return RecruiterStats{}, err
	}
	return s, nil
}

func (r *PostgresAnalyticsRepository) ApplicationsPerJob(ctx context.Context, recruiterID uuid.UUID) ([]JobApplicationCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT j.id, j.title, COUNT(a.id)
		 FROM jobs j
		 LEFT JOIN applications a ON a.job_id = j.id
		 WHERE j.recruiter_id = $1
		 GROUP BY j.id, j.title
		 ORDER BY j.posted_at DESC`,
		recruiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobApplicationCount, 0)
	for rows.Next() {
		var item JobApplicationCount
		if err := rows.Scan(&item.JobID, &item.Title, &item.Applications); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PostgresAnalyticsRepository) CountAdminActions(ctx context.Context, actorID uuid.UUID) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_logs WHERE actor_id = $1`, actorID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresAnalyticsRepository) RecentLogsByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]admin.LogEntry, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, actor_id, action, target_id, metadata, created_at
		 FROM admin_logs
		 WHERE actor_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		actorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]admin.LogEntry, 0, limit)
	for rows.Next() {
		entry, err := scanLogEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

var _ AnalyticsRepository = (*PostgresAnalyticsRepository)(nil)
