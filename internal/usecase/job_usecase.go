package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/matching"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRecruiterOnly    = errors.New("only recruiters can post jobs")
	ErrNotJobOwner      = errors.New("job belongs to another recruiter")
	ErrMissingJobFields = errors.New("title, description, required skills, company and recruiter name are required")
)

type JobInput struct {
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
}

// SkillGap is the per-skill demand report for one job: which required
// skills the current applicant pool covers and which nobody brings.
type SkillGap struct {
	Job           job.Job
	Applicants    int
	CoveredSkills []string
	MissingSkills []string
}

type JobUsecase interface {
	Create(ctx context.Context, actor user.User, in JobInput) (job.Job, error)
	Update(ctx context.Context, actor user.User, jobID uuid.UUID, in JobInput) (job.Job, error)
	ToggleActive(ctx context.Context, actor user.User, jobID uuid.UUID) (bool, error)
	Delete(ctx context.Context, actor user.User, jobID uuid.UUID) error

	Get(ctx context.Context, jobID uuid.UUID) (job.Job, error)
	ListActive(ctx context.Context) ([]job.Job, error)
	ListMine(ctx context.Context, actor user.User) ([]job.Job, error)
	Search(ctx context.Context, f job.SearchFilter) ([]job.Job, error)

	ApplicationsPerJob(ctx context.Context, actor user.User) ([]repository.JobApplicationCount, error)
	SkillGapAnalysis(ctx context.Context, actor user.User, jobID uuid.UUID) (SkillGap, error)
}

type Jobs struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	analytics    repository.AnalyticsRepository
}

func NewJobUsecase(jobs repository.JobRepository, applications repository.ApplicationRepository, analytics repository.AnalyticsRepository) *Jobs {
	return &Jobs{jobs: jobs, applications: applications, analytics: analytics}
}

func (u *Jobs) Create(ctx context.Context, actor user.User, in JobInput) (job.Job, error) {
	if actor.Role != user.RoleRecruiter {
		return job.Job{}, ErrRecruiterOnly
	}
	if err := validateJobInput(in); err != nil {
		return job.Job{}, err
	}

	recruiterID := actor.ID
	j := job.Job{
		ID:             uuid.New(),
		RecruiterID:    &recruiterID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		RequiredSkills: matching.NormalizeSkills(in.RequiredSkills),
		CompanyName:    strings.TrimSpace(in.CompanyName),
		RecruiterName:  strings.TrimSpace(in.RecruiterName),
		Location:       strings.TrimSpace(in.Location),
		Salary:         strings.TrimSpace(in.Salary),
		Type:           strings.TrimSpace(in.Type),
		Experience:     strings.TrimSpace(in.Experience),
		Remote:         in.Remote,
		IsActive:       true,
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (u *Jobs) Update(ctx context.Context, actor user.User, jobID uuid.UUID, in JobInput) (job.Job, error) {
	j, err := u.ownedJob(ctx, actor, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if err := validateJobInput(in); err != nil {
		return job.Job{}, err
	}

	j.Title = strings.TrimSpace(in.Title)
	j.Description = strings.TrimSpace(in.Description)
	j.RequiredSkills = matching.NormalizeSkills(in.RequiredSkills)
	j.Location = strings.TrimSpace(in.Location)
	j.Salary = strings.TrimSpace(in.Salary)
	j.Type = strings.TrimSpace(in.Type)
	j.Experience = strings.TrimSpace(in.Experience)
	j.Remote = in.Remote

	if err := u.jobs.Update(ctx, j); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (u *Jobs) ToggleActive(ctx context.Context, actor user.User, jobID uuid.UUID) (bool, error) {
	if _, err := u.ownedJob(ctx, actor, jobID); err != nil {
		return false, err
	}
	return u.jobs.ToggleActive(ctx, jobID)
}

func (u *Jobs) Delete(ctx context.Context, actor user.User, jobID uuid.UUID) error {
	if _, err := u.ownedJob(ctx, actor, jobID); err != nil {
		return err
	}
	return u.jobs.Delete(ctx, jobID)
}

func (u *Jobs) Get(ctx context.Context, jobID uuid.UUID) (job.Job, error) {
	return u.jobs.GetByID(ctx, jobID)
}

func (u *Jobs) ListActive(ctx context.Context) ([]job.Job, error) {
	return u.jobs.ListActive(ctx)
}

func (u *Jobs) ListMine(ctx context.Context, actor user.User) ([]job.Job, error) {
	return u.jobs.ListByRecruiter(ctx, actor.ID)
}

func (u *Jobs) Search(ctx context.Context, f job.SearchFilter) ([]job.Job, error) {
	f.Skills = matching.NormalizeSkills(f.Skills)
	return u.jobs.Search(ctx, f)
}

func (u *Jobs) ApplicationsPerJob(ctx context.Context, actor user.User) ([]repository.JobApplicationCount, error) {
	return u.analytics.ApplicationsPerJob(ctx, actor.ID)
}

// SkillGapAnalysis reports which of a job's required skills are covered by
// at least one current applicant and which none of them bring.
func (u *Jobs) SkillGapAnalysis(ctx context.Context, actor user.User, jobID uuid.UUID) (SkillGap, error) {
	j, err := u.ownedJob(ctx, actor, jobID)
	if err != nil {
		return SkillGap{}, err
	}

	applicants, err := u.applications.ListByJob(ctx, jobID)
	if err != nil {
		return SkillGap{}, err
	}

	pool := make(map[string]struct{})
	for _, a := range applicants {
		for _, s := range a.UserSkills {
			pool[matching.NormalizeSkill(s)] = struct{}{}
		}
	}

	gap := SkillGap{Job: j, Applicants: len(applicants)}
	for _, required := range j.RequiredSkills {
		if _, ok := pool[required]; ok {
			gap.CoveredSkills = append(gap.CoveredSkills, required)
		} else {
			gap.MissingSkills = append(gap.MissingSkills, required)
		}
	}
	sort.Strings(gap.CoveredSkills)
	sort.Strings(gap.MissingSkills)
	return gap, nil
}

// ownedJob loads the job and enforces write access: the posting recruiter
// or an admin. A demoted recruiter no longer owns anything.
func (u *Jobs) ownedJob(ctx context.Context, actor user.User, jobID uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if actor.Role == user.RoleAdmin {
		return j, nil
	}
	if !j.OwnedBy(actor.ID) {
		return job.Job{}, ErrNotJobOwner
	}
	return j, nil
}

func validateJobInput(in JobInput) error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.CompanyName) == "" ||
		strings.TrimSpace(in.RecruiterName) == "" ||
		len(matching.NormalizeSkills(in.RequiredSkills)) == 0 {
		return ErrMissingJobFields
	}
	return nil
}

var _ JobUsecase = (*Jobs)(nil)
