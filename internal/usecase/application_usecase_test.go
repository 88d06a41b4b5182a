package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-hire/internal/domain/application"
	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/user"

	"github.com/google/uuid"
)

func testStudent() user.User {
	return user.User{
		ID: uuid.New(), Name: "Ann", Email: "ann@example.com",
		Role: user.RoleStudent, IsVerified: true,
		Skills: []string{"go", "sql"}, ResumeKey: "resumes/1-ann.pdf",
	}
}

func testRecruiterAndJob() (user.User, job.Job) {
	recruiter := user.User{ID: uuid.New(), Name: "Rex", Email: "rex@corp.com", Role: user.RoleRecruiter, IsVerified: true}
	rid := recruiter.ID
	j := job.Job{
		ID: uuid.New(), RecruiterID: &rid, Title: "Backend Engineer",
		RequiredSkills: []string{"go", "sql", "docker", "kubernetes"},
		CompanyName:    "Corp", IsActive: true,
	}
	return recruiter, j
}

func TestApplications_Apply_RequiresResume(t *testing.T) {
	_, j := testRecruiterAndJob()
	uc := NewApplicationUsecase(newFakeApplicationRepo(), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	applicant := testStudent()
	applicant.ResumeKey = ""

	_, err := uc.Apply(context.Background(), applicant, j.ID)
	if !errors.Is(err, ErrResumeRequired) {
		t.Fatalf("expected ErrResumeRequired, got %v", err)
	}
}

func TestApplications_Apply_UnknownJob(t *testing.T) {
	uc := NewApplicationUsecase(newFakeApplicationRepo(), newFakeJobRepo(), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.Apply(context.Background(), testStudent(), uuid.New())
	if !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected job.ErrNotFound, got %v", err)
	}
}

func TestApplications_Apply_InactiveJob(t *testing.T) {
	_, j := testRecruiterAndJob()
	j.IsActive = false
	uc := NewApplicationUsecase(newFakeApplicationRepo(), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.Apply(context.Background(), testStudent(), j.ID)
	if !errors.Is(err, ErrJobClosed) {
		t.Fatalf("expected ErrJobClosed, got %v", err)
	}
}

func TestApplications_Apply_SnapshotsFitScoreAndResume(t *testing.T) {
	_, j := testRecruiterAndJob()
	uc := NewApplicationUsecase(newFakeApplicationRepo(), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	applicant := testStudent()
	a, err := uc.Apply(context.Background(), applicant, j.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// 2 of 4 required skills matched.
	if a.FitScore != 50 {
		t.Fatalf("expected fit score 50, got %d", a.FitScore)
	}
	if a.ResumeKey != applicant.ResumeKey {
		t.Fatalf("expected the resume key snapshot, got %q", a.ResumeKey)
	}
	if a.Status != application.StatusPending {
		t.Fatalf("expected pending, got %s", a.Status)
	}
}

func TestApplications_Apply_DuplicateConflict(t *testing.T) {
	_, j := testRecruiterAndJob()
	apps := newFakeApplicationRepo()
	uc := NewApplicationUsecase(apps, newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	applicant := testStudent()
	if _, err := uc.Apply(context.Background(), applicant, j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Apply(context.Background(), applicant, j.ID); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplications_UpdateStatus_TerminalIsFrozen(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusHired}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.UpdateStatus(context.Background(), recruiter, a.ID, "rejected", nil)
	if !errors.Is(err, application.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplications_UpdateStatus_ConcurrentTerminalDecisionWins(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusInterviewScheduled}
	apps := newFakeApplicationRepo(a)
	// A competing reviewer lands a hire between this caller's read and
	// its guarded write.
	apps.afterGet = func() {
		stored := apps.apps[a.ID]
		stored.Status = application.StatusHired
		apps.apps[a.ID] = stored
	}
	uc := NewApplicationUsecase(apps, newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.UpdateStatus(context.Background(), recruiter, a.ID, "rejected", nil)
	if !errors.Is(err, application.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if apps.apps[a.ID].Status != application.StatusHired {
		t.Fatalf("the terminal decision must stand, got %s", apps.apps[a.ID].Status)
	}
}

func TestApplications_ScheduleInterview_ConcurrentTerminalDecisionWins(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusPending}
	apps := newFakeApplicationRepo(a)
	apps.afterGet = func() {
		stored := apps.apps[a.ID]
		stored.Status = application.StatusRejected
		apps.apps[a.ID] = stored
	}
	uc := NewApplicationUsecase(apps, newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.ScheduleInterview(context.Background(), recruiter, a.ID, time.Now().Add(48*time.Hour))
	if !errors.Is(err, application.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if apps.apps[a.ID].Status != application.StatusRejected {
		t.Fatalf("the terminal decision must stand, got %s", apps.apps[a.ID].Status)
	}
}

func TestApplications_UpdateStatus_PendingCannotBeHiredDirectly(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.UpdateStatus(context.Background(), recruiter, a.ID, "hired", nil)
	if !errors.Is(err, application.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplications_UpdateStatus_ApprovedAlias(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	updated, err := uc.UpdateStatus(context.Background(), recruiter, a.ID, "approved", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Status != application.StatusInterviewScheduled {
		t.Fatalf("expected approved to normalize to interview_scheduled, got %s", updated.Status)
	}
}

func TestApplications_UpdateStatus_ForeignRecruiterForbidden(t *testing.T) {
	_, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	other := user.User{ID: uuid.New(), Role: user.RoleRecruiter, IsVerified: true}
	_, err := uc.UpdateStatus(context.Background(), other, a.ID, "rejected", nil)
	if !errors.Is(err, ErrNotApplicationOwner) {
		t.Fatalf("expected ErrNotApplicationOwner, got %v", err)
	}
}

func TestApplications_UpdateStatus_AdminAllowed(t *testing.T) {
	_, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	adm := user.User{ID: uuid.New(), Role: user.RoleAdmin, IsVerified: true}
	updated, err := uc.UpdateStatus(context.Background(), adm, a.ID, "rejected", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Status != application.StatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
}

func TestApplications_ScheduleInterview_PastDate(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.ScheduleInterview(context.Background(), recruiter, a.ID, time.Now().Add(-time.Hour))
	if !errors.Is(err, ErrInterviewDateInPast) {
		t.Fatalf("expected ErrInterviewDateInPast, got %v", err)
	}
}

func TestApplications_ScheduleInterview_EmailFailureIsWarning(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	applicant := testStudent()
	a := application.Application{ID: uuid.New(), UserID: applicant.ID, JobID: j.ID, Status: application.StatusPending}
	apps := newFakeApplicationRepo(a)
	uc := NewApplicationUsecase(apps, newFakeJobRepo(j), newFakeUserRepo(applicant), newFakeObjectStore(), &fakeMailer{sendErr: errors.New("smtp down")})

	result, err := uc.ScheduleInterview(context.Background(), recruiter, a.ID, time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatalf("scheduling must not fail on email delivery: %v", err)
	}
	if result.Warning == "" {
		t.Fatalf("expected a warning on email failure")
	}

	stored, _ := apps.GetByID(context.Background(), a.ID)
	if stored.Status != application.StatusInterviewScheduled {
		t.Fatalf("expected the scheduling to stand, got %s", stored.Status)
	}
}

func TestApplications_ScheduleInterview_TerminalRejected(t *testing.T) {
	recruiter, j := testRecruiterAndJob()
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: j.ID, Status: application.StatusRejected}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	_, err := uc.ScheduleInterview(context.Background(), recruiter, a.ID, time.Now().Add(48*time.Hour))
	if !errors.Is(err, application.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplications_Get_ApplicantSeesOwn(t *testing.T) {
	_, j := testRecruiterAndJob()
	applicant := testStudent()
	a := application.Application{ID: uuid.New(), UserID: applicant.ID, JobID: j.ID, Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(j), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	got, err := uc.Get(context.Background(), applicant, a.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("unexpected application returned")
	}
}

func TestApplications_Get_OrphanedOnlyForAdmin(t *testing.T) {
	// The job is gone; its recruiter cannot prove ownership any more.
	recruiter := user.User{ID: uuid.New(), Role: user.RoleRecruiter, IsVerified: true}
	a := application.Application{ID: uuid.New(), UserID: uuid.New(), JobID: uuid.New(), Status: application.StatusPending}
	uc := NewApplicationUsecase(newFakeApplicationRepo(a), newFakeJobRepo(), newFakeUserRepo(), newFakeObjectStore(), &fakeMailer{})

	if _, err := uc.Get(context.Background(), recruiter, a.ID); !errors.Is(err, ErrNotApplicationOwner) {
		t.Fatalf("expected ErrNotApplicationOwner for orphaned application, got %v", err)
	}

	adm := user.User{ID: uuid.New(), Role: user.RoleAdmin, IsVerified: true}
	if _, err := uc.Get(context.Background(), adm, a.ID); err != nil {
		t.Fatalf("admin must reach orphaned applications, got %v", err)
	}
}
