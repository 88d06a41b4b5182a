package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"campus-hire/internal/domain/admin"
	"campus-hire/internal/domain/application"
	"campus-hire/internal/domain/job"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/infrastructure/mlclient"
	"campus-hire/internal/infrastructure/storage"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users     map[uuid.UUID]user.User
	createErr error
	logins    []uuid.UUID
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) ExistsVerifiedByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.IsVerified {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) List(context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) AppendLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.logins = append(r.logins, id)
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetExpiresAt = &expiresAt
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) ClearResetToken(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetTokenHash = ""
	u.ResetExpiresAt = nil
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (user.User, error) {
	for _, u := range r.users {
		if u.ResetTokenHash == tokenHash && u.ResetExpiresAt != nil && u.ResetExpiresAt.After(now) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) ResetPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok || u.ResetTokenHash == "" {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetExpiresAt = nil
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdateResume(_ context.Context, id uuid.UUID, resumeKey string, skills []string) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResumeKey = resumeKey
	u.Skills = skills
	r.users[id] = u
	return nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]job.Job
}

func newFakeJobRepo(jobs ...job.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: make(map[uuid.UUID]job.Job)}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(_ context.Context, j job.Job) error {
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) Update(_ context.Context, j job.Job) error {
	if _, ok := r.jobs[j.ID]; !ok {
		return job.ErrNotFound
	}
	r.jobs[j.ID] = j
	return nil
}

func (r *fakeJobRepo) ToggleActive(_ context.Context, id uuid.UUID) (bool, error) {
	j, ok := r.jobs[id]
	if !ok {
		return false, job.ErrNotFound
	}
	j.IsActive = !j.IsActive
	r.jobs[id] = j
	return j.IsActive, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.jobs[id]; !ok {
		return job.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) ListActive(context.Context) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for _, j := range r.jobs {
		if j.IsActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListAll(context.Context) ([]job.Job, error) {
	out := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) ListByRecruiter(_ context.Context, recruiterID uuid.UUID) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for _, j := range r.jobs {
		if j.OwnedBy(recruiterID) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Search(ctx context.Context, _ job.SearchFilter) ([]job.Job, error) {
	return r.ListActive(ctx)
}

type fakeApplicationRepo struct {
	apps      map[uuid.UUID]application.Application
	byJob     []repository.ApplicationWithUser
	createErr error

	// afterGet runs once the read snapshot is taken, to interleave a
	// competing writer between a caller's read and its guarded write.
	afterGet func()
}

func newFakeApplicationRepo(apps ...application.Application) *fakeApplicationRepo {
	r := &fakeApplicationRepo{apps: make(map[uuid.UUID]application.Application)}
	for _, a := range apps {
		r.apps[a.ID] = a
	}
	return r
}

func (r *fakeApplicationRepo) Create(_ context.Context, a application.Application) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.apps {
		if existing.UserID == a.UserID && existing.JobID == a.JobID {
			return repository.ErrDuplicateApplication
		}
	}
	r.apps[a.ID] = a
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	if r.afterGet != nil {
		r.afterGet()
	}
	return a, nil
}

func (r *fakeApplicationRepo) GetByUserAndJob(_ context.Context, userID, jobID uuid.UUID) (application.Application, error) {
	for _, a := range r.apps {
		if a.UserID == userID && a.JobID == jobID {
			return a, nil
		}
	}
	return application.Application{}, application.ErrNotFound
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.apps[id]; !ok {
		return application.ErrNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to application.Status, notes *string) error {
	a, ok := r.apps[id]
	if !ok {
		return application.ErrNotFound
	}
	if a.Status != from {
		return application.ErrInvalidTransition
	}
	a.Status = to
	if notes != nil {
		a.Notes = *notes
	}
	r.apps[id] = a
	return nil
}

func (r *fakeApplicationRepo) ScheduleInterview(_ context.Context, id uuid.UUID, from application.Status, date time.Time, link string) error {
	a, ok := r.apps[id]
	if !ok {
		return application.ErrNotFound
	}
	if a.Status != from {
		return application.ErrInvalidTransition
	}
	a.Status = application.StatusInterviewScheduled
	a.InterviewDate = &date
	a.InterviewLink = link
	r.apps[id] = a
	return nil
}

func (r *fakeApplicationRepo) ListByUser(context.Context, uuid.UUID) ([]repository.ApplicationWithJob, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) ListByJob(context.Context, uuid.UUID) ([]repository.ApplicationWithUser, error) {
	return r.byJob, nil
}

func (r *fakeApplicationRepo) ListByRecruiter(context.Context, uuid.UUID) ([]repository.ApplicationWithUser, error) {
	return r.byJob, nil
}

func (r *fakeApplicationRepo) CountByJob(context.Context, uuid.UUID) (int64, error) {
	return int64(len(r.apps)), nil
}

type fakeAdminRepo struct {
	events     []string
	logs       []admin.LogEntry
	invites    []admin.Invite
	consumeErr error
}

func (r *fakeAdminRepo) AppendLog(_ context.Context, entry admin.LogEntry) error {
	r.events = append(r.events, "log:"+entry.Action)
	r.logs = append(r.logs, entry)
	return nil
}

func (r *fakeAdminRepo) ListLogs(context.Context, int, int) ([]admin.LogEntry, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

func (r *fakeAdminRepo) CreateInvite(_ context.Context, inv admin.Invite) error {
	r.invites = append(r.invites, inv)
	return nil
}

func (r *fakeAdminRepo) ConsumeInvite(_ context.Context, token, email string, _ uuid.UUID, now time.Time) error {
	if r.consumeErr != nil {
		return r.consumeErr
	}
	for i, inv := range r.invites {
		if inv.Token == token && strings.EqualFold(inv.Email, email) && !inv.Used && inv.ExpiresAt.After(now) {
			r.invites[i].Used = true
			return nil
		}
	}
	return admin.ErrInviteInvalid
}

func (r *fakeAdminRepo) DeleteUserCascade(_ context.Context, userID uuid.UUID, _ bool) error {
	r.events = append(r.events, "delete-user:"+userID.String())
	return nil
}

func (r *fakeAdminRepo) ChangeRole(_ context.Context, userID uuid.UUID, newRole user.Role, _ bool) error {
	r.events = append(r.events, "change-role:"+string(newRole))
	return nil
}

type fakeMailer struct {
	sent    []string
	sendErr error
}

func (m *fakeMailer) SendVerificationOTP(_ context.Context, email, _, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, "otp:"+email+":"+code)
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, "reset:"+email)
	return nil
}

func (m *fakeMailer) SendInterviewNotice(_ context.Context, email, _, _ string, _ time.Time, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, "interview:"+email)
	return nil
}

func (m *fakeMailer) SendAdminInvite(_ context.Context, email, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, "invite:"+email)
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type fakeMLClient struct {
	skills   []string
	parseErr error
	matches  []mlclient.JobMatch
	matchErr error
}

func (m *fakeMLClient) ParseResume(context.Context, string, io.Reader) ([]string, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.skills, nil
}

func (m *fakeMLClient) MatchJobs(context.Context, []string, []mlclient.JobForMatching) ([]mlclient.JobMatch, error) {
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	return m.matches, nil
}
