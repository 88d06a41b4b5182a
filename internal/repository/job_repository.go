package repository

import (
	"context"
	"errors"
	"strconv"

	"campus-hire/internal/database"
	"campus-hire/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type JobRepository interface {
	Create(ctx context.Context, j job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Update(ctx context.Context, j job.Job) error
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListActive(ctx context.Context) ([]job.Job, error)
	ListAll(ctx context.Context) ([]job.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]job.Job, error)
	Search(ctx context.Context, f job.SearchFilter) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, recruiter_id, title, description, required_skills, company_name,
	recruiter_name, location, salary, job_type, experience, remote, is_active, posted_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, recruiter_id, title, description, required_skills, company_name,
		                   recruiter_name, location, salary, job_type, experience, remote, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		j.ID, j.RecruiterID, j.Title, j.Description, j.RequiredSkills, j.CompanyName,
		j.RecruiterName, j.Location, j.Salary, j.Type, j.Experience, j.Remote, j.IsActive,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs
		 SET title = $2, description = $3, required_skills = $4, location = $5, salary = $6,
		     job_type = $7, experience = $8, remote = $9
		 WHERE id = $1`,
		j.ID, j.Title, j.Description, j.RequiredSkills, j.Location, j.Salary,
		j.Type, j.Experience, j.Remote,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

// ToggleActive flips the flag in a single statement and returns the new
// value, avoiding a read-modify-write race between concurrent toggles.
func (r *PostgresJobRepository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	row := r.db.QueryRow(ctx,
		`UPDATE jobs SET is_active = NOT is_active WHERE id = $1 RETURNING is_active`, id)
	if err := row.Scan(&active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, job.ErrNotFound
		}
		return false, err
	}
	return active, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListActive(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE is_active ORDER BY posted_at DESC`)
}

func (r *PostgresJobRepository) ListAll(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY posted_at DESC`)
}

func (r *PostgresJobRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE recruiter_id = $1 ORDER BY posted_at DESC`,
		recruiterID)
}

func (r *PostgresJobRepository) Search(ctx context.Context, f job.SearchFilter) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE is_active`
	args := make([]any, 0, 6)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		query += ` AND (title ILIKE ` + p + ` OR description ILIKE ` + p + ` OR company_name ILIKE ` + p + `)`
	}
	if f.Location != "" {
		query += ` AND location ILIKE ` + arg("%"+f.Location+"%")
	}
	if f.Remote != nil {
		query += ` AND remote = ` + arg(*f.Remote)
	}
	if f.Type != "" {
		query += ` AND job_type = ` + arg(f.Type)
	}
	if f.Experience != "" {
		query += ` AND experience = ` + arg(f.Experience)
	}
	if len(f.Skills) > 0 {
		query += ` AND required_skills && ` + arg(f.Skills)
	}
	query += ` ORDER BY posted_at DESC`

	return r.list(ctx, query, args...)
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.RecruiterID, &j.Title, &j.Description, &j.RequiredSkills, &j.CompanyName,
		&j.RecruiterName, &j.Location, &j.Salary, &j.Type, &j.Experience, &j.Remote,
		&j.IsActive, &j.PostedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

var _ JobRepository = (*PostgresJobRepository)(nil)
