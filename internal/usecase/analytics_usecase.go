package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"campus-hire/internal/domain/admin"
	"campus-hire/internal/domain/matching"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidRange = errors.New("range must be week, month, year or all")

// MetricsSummary extends the raw platform counts with derived figures.
type MetricsSummary struct {
	repository.PlatformMetrics
	InactiveJobs          int64
	AvgApplicationsPerJob float64
}

// ActivityCard is the dashboard payload: metric totals plus login volume
// per weekday within the requested range.
type ActivityCard struct {
	Metrics       MetricsSummary
	Range         string
	LoginActivity map[string]int64
}

// UserAnalytics is the per-user rollup. Exactly one of the role sections
// is populated, matching the target's role.
type UserAnalytics struct {
	User        user.User
	LastLoginAt *time.Time

	Student   *StudentAnalytics
	Recruiter *RecruiterAnalytics
	Admin     *AdminAnalytics
}

type StudentAnalytics struct {
	Applied       int64
	Rejected      int64
	Interviewed   int64
	RejectionRate float64
	InterviewRate float64
}

type RecruiterAnalytics struct {
	JobsPosted    int64
	Applications  int64
	Rejected      int64
	Interviews    int64
	RejectionRate float64
	InterviewRate float64
}

type AdminAnalytics struct {
	ActionsTaken int64
	RecentLogs   []admin.LogEntry
	Platform     MetricsSummary
}

// ApplicantScore is one applicant's live skill overlap against a job.
type ApplicantScore struct {
	UserID   uuid.UUID
	Name     string
	Email    string
	FitScore int
}

// JobMatchReport ranks a job's applicants by current skill overlap.
type JobMatchReport struct {
	JobID         uuid.UUID
	Title         string
	Applicants    int
	AverageScore  float64
	TopApplicants []ApplicantScore
}

type AnalyticsUsecase interface {
	PlatformMetrics(ctx context.Context) (MetricsSummary, error)
	ActivityCard(ctx context.Context, rangeName string) (ActivityCard, error)
	PerUser(ctx context.Context, userID uuid.UUID) (UserAnalytics, error)
	JobMatchScores(ctx context.Context, jobID uuid.UUID) (JobMatchReport, error)
}

type Analytics struct {
	analytics    repository.AnalyticsRepository
	users        repository.UserRepository
	jobs         repository.JobRepository
	applications repository.ApplicationRepository

	now func() time.Time
}

func NewAnalyticsUsecase(
	analytics repository.AnalyticsRepository,
	users repository.UserRepository,
	jobs repository.JobRepository,
	applications repository.ApplicationRepository,
) *Analytics {
	return &Analytics{
		analytics:    analytics,
		users:        users,
		jobs:         jobs,
		applications: applications,
		now:          time.Now,
	}
}

func (u *Analytics) PlatformMetrics(ctx context.Context) (MetricsSummary, error) {
	m, err := u.analytics.PlatformMetrics(ctx)
	if err != nil {
		return MetricsSummary{}, err
	}
	return summarize(m), nil
}

func (u *Analytics) ActivityCard(ctx context.Context, rangeName string) (ActivityCard, error) {
	now := u.now().UTC()
	var since time.Time
	switch rangeName {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	case "year":
		since = now.AddDate(-1, 0, 0)
	case "all", "":
		rangeName = "all"
	default:
		return ActivityCard{}, ErrInvalidRange
	}

	metrics, err := u.PlatformMetrics(ctx)
	if err != nil {
		return ActivityCard{}, err
	}

	byDay, err := u.analytics.LoginActivityByWeekday(ctx, since, now)
	if err != nil {
		return ActivityCard{}, err
	}

	activity := make(map[string]int64, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		activity[d.String()] = byDay[int(d)]
	}

	return ActivityCard{Metrics: metrics, Range: rangeName, LoginActivity: activity}, nil
}

func (u *Analytics) PerUser(ctx context.Context, userID uuid.UUID) (UserAnalytics, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return UserAnalytics{}, err
	}

	out := UserAnalytics{User: usr.Sanitized()}
	if out.LastLoginAt, err = u.analytics.LastLoginAt(ctx, userID); err != nil {
		return UserAnalytics{}, err
	}

	switch usr.Role {
	case user.RoleStudent:
		stats, err := u.analytics.StudentStats(ctx, userID)
		if err != nil {
			return UserAnalytics{}, err
		}
		out.Student = &StudentAnalytics{
			Applied:       stats.Applied,
			Rejected:      stats.Rejected,
			Interviewed:   stats.Interviewed,
			RejectionRate: rate(stats.Rejected, stats.Applied),
			InterviewRate: rate(stats.Interviewed, stats.Applied),
		}
	case user.RoleRecruiter:
		stats, err := u.analytics.RecruiterStats(ctx, userID)
		if err != nil {
			return UserAnalytics{}, err
		}
		out.Recruiter = &RecruiterAnalytics{
			JobsPosted:    stats.JobsPosted,
			Applications:  stats.Applications,
			Rejected:      stats.Rejected,
			Interviews:    stats.Interviews,
			RejectionRate: rate(stats.Rejected, stats.Applications),
			InterviewRate: rate(stats.Interviews, stats.Applications),
		}
	case user.RoleAdmin:
		actions, err := u.analytics.CountAdminActions(ctx, userID)
		if err != nil {
			return UserAnalytics{}, err
		}
		recent, err := u.analytics.RecentLogsByActor(ctx, userID, 5)
		if err != nil {
			return UserAnalytics{}, err
		}
		platform, err := u.PlatformMetrics(ctx)
		if err != nil {
			return UserAnalytics{}, err
		}
		out.Admin = &AdminAnalytics{ActionsTaken: actions, RecentLogs: recent, Platform: platform}
	}

	return out, nil
}

// JobMatchScores scores each applicant against the job's current required
// skills, not against the fit score frozen at application time.
func (u *Analytics) JobMatchScores(ctx context.Context, jobID uuid.UUID) (JobMatchReport, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return JobMatchReport{}, err
	}

	applicants, err := u.applications.ListByJob(ctx, jobID)
	if err != nil {
		return JobMatchReport{}, err
	}

	report := JobMatchReport{JobID: j.ID, Title: j.Title, Applicants: len(applicants)}

	scores := make([]ApplicantScore, 0, len(applicants))
	var sum int64
	for _, a := range applicants {
		score := matching.FitScore(a.UserSkills, j.RequiredSkills)
		sum += int64(score)
		scores = append(scores, ApplicantScore{
			UserID:   a.UserID,
			Name:     a.UserName,
			Email:    a.UserEmail,
			FitScore: score,
		})
	}
	sort.SliceStable(scores, func(i, k int) bool { return scores[i].FitScore > scores[k].FitScore })

	if len(scores) > 0 {
		report.AverageScore = float64(sum) / float64(len(scores))
	}
	if len(scores) > 5 {
		scores = scores[:5]
	}
	report.TopApplicants = scores
	return report, nil
}

func summarize(m repository.PlatformMetrics) MetricsSummary {
	s := MetricsSummary{PlatformMetrics: m, InactiveJobs: m.TotalJobs - m.ActiveJobs}
	if m.TotalJobs > 0 {
		s.AvgApplicationsPerJob = float64(m.TotalApplications) / float64(m.TotalJobs)
	}
	return s
}

func rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
