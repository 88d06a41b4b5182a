package repository

import (
	"context"
	"errors"
	"time"

	"campus-hire/internal/database"
	"campus-hire/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrDuplicateApplication = errors.New("application already exists for this user and job")

// ApplicationWithJob carries an application together with its job summary,
// for the applicant's own view. Applications whose job has been deleted are
// filtered out by the join.
type ApplicationWithJob struct {
	application.Application
	JobTitle    string
	CompanyName string
	JobActive   bool
}

// ApplicationWithUser carries an application together with applicant info,
// for recruiter and admin views.
type ApplicationWithUser struct {
	application.Application
	UserName   string
	UserEmail  string
	UserSkills []string
}

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	GetByUserAndJob(ctx context.Context, userID, jobID uuid.UUID) (application.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status, notes *string) error
	ScheduleInterview(ctx context.Context, id uuid.UUID, from application.Status, date time.Time, link string) error

	ListByUser(ctx context.Context, userID uuid.UUID) ([]ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]ApplicationWithUser, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]ApplicationWithUser, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, user_id, job_id, status, fit_score, resume_key, notes,
	interview_date, COALESCE(interview_link, ''), applied_at`

// Create relies on the (user_id, job_id) unique constraint to close the
// race between concurrent duplicate submissions; the pre-check in the
// usecase only improves the error message.
func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, status, fit_score, resume_key, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.JobID, string(a.Status), a.FitScore, a.ResumeKey, a.Notes,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateApplication
	}
	return err
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) GetByUserAndJob(ctx context.Context, userID, jobID uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 AND job_id = $2`,
		userID, jobID)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return application.ErrNotFound
	}
	return nil
}

// UpdateStatus writes the new status only while the row still holds the
// status the caller read. A concurrent transition wins the row and this
// write reports an invalid transition instead of overwriting it.
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status, notes *string) error {
	var (
		n   int64
		err error
	)
	if notes != nil {
		n, err = r.db.Exec(ctx,
			`UPDATE applications SET status = $2, notes = $3 WHERE id = $1 AND status = $4`,
			id, string(to), *notes, string(from))
	} else {
		n, err = r.db.Exec(ctx,
			`UPDATE applications SET status = $2 WHERE id = $1 AND status = $3`,
			id, string(to), string(from))
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return r.statusConflict(ctx, id)
	}
	return nil
}

func (r *PostgresApplicationRepository) ScheduleInterview(ctx context.Context, id uuid.UUID, from application.Status, date time.Time, link string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET status = $2, interview_date = $3, interview_link = $4
		 WHERE id = $1 AND status = $5`,
		id, string(application.StatusInterviewScheduled), date, link, string(from))
	if err != nil {
		return err
	}
	if n == 0 {
		return r.statusConflict(ctx, id)
	}
	return nil
}

// statusConflict distinguishes a vanished row from one whose status moved
// under a guarded update.
func (r *PostgresApplicationRepository) statusConflict(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return application.ErrInvalidTransition
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]ApplicationWithJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.fit_score, a.resume_key, a.notes,
		        a.interview_date, COALESCE(a.interview_link, ''), a.applied_at,
		        j.title, j.company_name, j.is_active
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1
		 ORDER BY a.applied_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationWithJob, 0)
	for rows.Next() {
		var item ApplicationWithJob
		var status string
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.JobID, &status, &item.FitScore, &item.ResumeKey,
			&item.Notes, &item.InterviewDate, &item.InterviewLink, &item.AppliedAt,
			&item.JobTitle, &item.CompanyName, &item.JobActive,
		); err != nil {
			return nil, err
		}
		item.Status = application.Status(status)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]ApplicationWithUser, error) {
	return r.listWithUser(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.fit_score, a.resume_key, a.notes,
		        a.interview_date, COALESCE(a.interview_link, ''), a.applied_at,
		        u.name, u.email, u.skills
		 FROM applications a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.job_id = $1
		 ORDER BY a.applied_at DESC`,
		jobID)
}

func (r *PostgresApplicationRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]ApplicationWithUser, error) {
	return r.listWithUser(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.fit_score, a.resume_key, a.notes,
		        a.interview_date, COALESCE(a.interview_link, ''), a.applied_at,
		        u.name, u.email, u.skills
		 FROM applications a
		 JOIN users u ON u.id = a.user_id
		 JOIN jobs j ON j.id = a.job_id
		 WHERE j.recruiter_id = $1
		 ORDER BY a.applied_at DESC`,
		recruiterID)
}

func (r *PostgresApplicationRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresApplicationRepository) listWithUser(ctx context.Context, query string, args ...any) ([]ApplicationWithUser, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationWithUser, 0)
	for rows.Next() {
		var item ApplicationWithUser
		var status string
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.JobID, &status, &item.FitScore, &item.ResumeKey,
			&item.Notes, &item.InterviewDate, &item.InterviewLink, &item.AppliedAt,
			&item.UserName, &item.UserEmail, &item.UserSkills,
		); err != nil {
			return nil, err
		}
		item.Status = application.Status(status)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	var status string
	err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &status, &a.FitScore, &a.ResumeKey, &a.Notes,
		&a.InterviewDate, &a.InterviewLink, &a.AppliedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

var _ ApplicationRepository = (*PostgresApplicationRepository)(nil)
