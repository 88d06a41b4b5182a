package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"campus-hire/internal/domain/application"
	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/matching"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/infrastructure/mailer"
	"campus-hire/internal/infrastructure/storage"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrResumeRequired      = errors.New("upload a resume before applying")
	ErrJobClosed           = errors.New("job is no longer accepting applications")
	ErrNotApplicationOwner = errors.New("application belongs to another recruiter's job")
	ErrInterviewDateInPast = errors.New("interview date must be in the future")
	ErrResumeMissing       = errors.New("no resume stored for this application")
)

// ScheduleResult reports an interview scheduling whose primary mutation
// committed. Warning is set when the notification email failed.
type ScheduleResult struct {
	Application application.Application
	Warning     string
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor user.User, jobID uuid.UUID) (application.Application, error)
	Check(ctx context.Context, actor user.User, jobID uuid.UUID) (bool, error)
	Get(ctx context.Context, actor user.User, id uuid.UUID) (application.Application, error)
	Delete(ctx context.Context, actor user.User, id uuid.UUID) error

	UpdateStatus(ctx context.Context, actor user.User, id uuid.UUID, status string, notes *string) (application.Application, error)
	ScheduleInterview(ctx context.Context, actor user.User, id uuid.UUID, date time.Time) (ScheduleResult, error)

	ListMine(ctx context.Context, actor user.User) ([]repository.ApplicationWithJob, error)
	ListForRecruiter(ctx context.Context, actor user.User) ([]repository.ApplicationWithUser, error)
	ListByJob(ctx context.Context, actor user.User, jobID uuid.UUID) ([]repository.ApplicationWithUser, error)

	DownloadResume(ctx context.Context, actor user.User, id uuid.UUID) (io.ReadCloser, string, error)
}

type Applications struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	users        repository.UserRepository
	store        storage.ObjectStore
	mail         mailer.Mailer

	now func() time.Time
}

func NewApplicationUsecase(
	applications repository.ApplicationRepository,
	jobs repository.JobRepository,
	users repository.UserRepository,
	store storage.ObjectStore,
	mail mailer.Mailer,
) *Applications {
	return &Applications{
		applications: applications,
		jobs:         jobs,
		users:        users,
		store:        store,
		mail:         mail,
		now:          time.Now,
	}
}

// Apply snapshots the applicant's current resume and fit score. Later
// resume uploads never rewrite submitted applications.
func (u *Applications) Apply(ctx context.Context, actor user.User, jobID uuid.UUID) (application.Application, error) {
	if !actor.HasResume() {
		return application.Application{}, ErrResumeRequired
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return application.Application{}, err
	}
	if !j.IsActive {
		return application.Application{}, ErrJobClosed
	}

	a := application.Application{
		ID:        uuid.New(),
		UserID:    actor.ID,
		JobID:     j.ID,
		Status:    application.StatusPending,
		FitScore:  matching.FitScore(actor.Skills, j.RequiredSkills),
		ResumeKey: actor.ResumeKey,
	}
	if err := u.applications.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return application.Application{}, ErrAlreadyApplied
		}
		return application.Application{}, err
	}
	return a, nil
}

func (u *Applications) Check(ctx context.Context, actor user.User, jobID uuid.UUID) (bool, error) {
	_, err := u.applications.GetByUserAndJob(ctx, actor.ID, jobID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (u *Applications) Get(ctx context.Context, actor user.User, id uuid.UUID) (application.Application, error) {
	a, err := u.applications.GetByID(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	if a.UserID == actor.ID {
		return a, nil
	}
	if err := u.authorizeReviewer(ctx, actor, a); err != nil {
		return application.Application{}, err
	}
	return a, nil
}

func (u *Applications) Delete(ctx context.Context, actor user.User, id uuid.UUID) error {
	a, err := u.applications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.authorizeReviewer(ctx, actor, a); err != nil {
		return err
	}
	return u.applications.Delete(ctx, id)
}

func (u *Applications) UpdateStatus(ctx context.Context, actor user.User, id uuid.UUID, status string, notes *string) (application.Application, error) {
	next, ok := application.ParseStatus(status)
	if !ok {
		return application.Application{}, application.ErrInvalidStatus
	}

	a, err := u.applications.GetByID(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	if err := u.authorizeReviewer(ctx, actor, a); err != nil {
		return application.Application{}, err
	}

	if !a.Status.CanTransitionTo(next) {
		return application.Application{}, application.ErrInvalidTransition
	}

	if err := u.applications.UpdateStatus(ctx, id, a.Status, next, notes); err != nil {
		return application.Application{}, err
	}
	a.Status = next
	if notes != nil {
		a.Notes = *notes
	}
	return a, nil
}

// ScheduleInterview moves the application to interview_scheduled and then
// notifies the applicant. The notification is outside the mutation: its
// failure is reported as a warning, never as a failed scheduling.
func (u *Applications) ScheduleInterview(ctx context.Context, actor user.User, id uuid.UUID, date time.Time) (ScheduleResult, error) {
	if !date.After(u.now()) {
		return ScheduleResult{}, ErrInterviewDateInPast
	}

	a, err := u.applications.GetByID(ctx, id)
	if err != nil {
		return ScheduleResult{}, err
	}
	if err := u.authorizeReviewer(ctx, actor, a); err != nil {
		return ScheduleResult{}, err
	}

	// Rescheduling an already scheduled interview is allowed; terminal
	// applications are not.
	if a.Status != application.StatusInterviewScheduled &&
		!a.Status.CanTransitionTo(application.StatusInterviewScheduled) {
		return ScheduleResult{}, application.ErrInvalidTransition
	}

	link := fmt.Sprintf("https://meet.jit.si/interview-%s", uuid.NewString())
	if err := u.applications.ScheduleInterview(ctx, id, a.Status, date.UTC(), link); err != nil {
		return ScheduleResult{}, err
	}

	a.Status = application.StatusInterviewScheduled
	utc := date.UTC()
	a.InterviewDate = &utc
	a.InterviewLink = link

	result := ScheduleResult{Application: a}

	applicant, err := u.users.GetByID(ctx, a.UserID)
	if err != nil {
		result.Warning = "interview scheduled, but the applicant could not be notified"
		return result, nil
	}
	jobTitle := ""
	if j, err := u.jobs.GetByID(ctx, a.JobID); err == nil {
		jobTitle = j.Title
	}
	if err := u.mail.SendInterviewNotice(ctx, applicant.Email, applicant.Name, jobTitle, utc, link); err != nil {
		result.Warning = "interview scheduled, but the notification email failed"
	}
	return result, nil
}

func (u *Applications) ListMine(ctx context.Context, actor user.User) ([]repository.ApplicationWithJob, error) {
	return u.applications.ListByUser(ctx, actor.ID)
}

func (u *Applications) ListForRecruiter(ctx context.Context, actor user.User) ([]repository.ApplicationWithUser, error) {
	return u.applications.ListByRecruiter(ctx, actor.ID)
}

func (u *Applications) ListByJob(ctx context.Context, actor user.User, jobID uuid.UUID) ([]repository.ApplicationWithUser, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleAdmin && !j.OwnedBy(actor.ID) {
		return nil, ErrNotApplicationOwner
	}
	return u.applications.ListByJob(ctx, jobID)
}

// DownloadResume streams the resume snapshot attached to the application.
// The applicant, the owning recruiter, and admins may read it.
func (u *Applications) DownloadResume(ctx context.Context, actor user.User, id uuid.UUID) (io.ReadCloser, string, error) {
	a, err := u.applications.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if a.UserID != actor.ID {
		if err := u.authorizeReviewer(ctx, actor, a); err != nil {
			return nil, "", err
		}
	}
	if a.ResumeKey == "" {
		return nil, "", ErrResumeMissing
	}

	rc, err := u.store.Get(ctx, a.ResumeKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrResumeMissing
		}
		return nil, "", err
	}
	return rc, a.ResumeKey, nil
}

// authorizeReviewer grants admins unconditionally and recruiters only for
// applications to jobs they still own. An orphaned application (its job
// deleted or its recruiter demoted) is reviewable by admins alone.
func (u *Applications) authorizeReviewer(ctx context.Context, actor user.User, a application.Application) error {
	if actor.Role == user.RoleAdmin {
		return nil
	}
	if actor.Role != user.RoleRecruiter {
		return ErrNotApplicationOwner
	}
	j, err := u.jobs.GetByID(ctx, a.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrNotApplicationOwner
		}
		return err
	}
	if !j.OwnedBy(actor.ID) {
		return ErrNotApplicationOwner
	}
	return nil
}

var _ ApplicationUsecase = (*Applications)(nil)
