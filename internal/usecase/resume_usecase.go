package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"campus-hire/internal/domain/matching"
	"campus-hire/internal/domain/user"
	"campus-hire/internal/infrastructure/mlclient"
	"campus-hire/internal/infrastructure/storage"
	"campus-hire/internal/repository"
)

var (
	ErrUnsupportedFileType = errors.New("resume must be a pdf, doc, docx or txt file")
	ErrEmptyFile           = errors.New("resume file is empty")
	ErrFileTooLarge        = errors.New("resume exceeds the 5MB limit")
	ErrParserUnavailable   = errors.New("resume parser unavailable")
	ErrMatcherUnavailable  = errors.New("job matcher unavailable")
	ErrNoSkillsOnFile      = errors.New("no skills on file; upload a resume first")
	ErrNoResumeOnFile      = errors.New("no resume on file")
)

const maxResumeSize = 5 << 20

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// UploadResult is the outcome of a resume upload: the stored key and the
// skills the parser extracted.
type UploadResult struct {
	ResumeKey string
	Skills    []string
}

type ResumeUsecase interface {
	Upload(ctx context.Context, actor user.User, filename string, data []byte) (UploadResult, error)
	Recommend(ctx context.Context, actor user.User) ([]mlclient.JobMatch, error)
	Download(ctx context.Context, actor user.User) (io.ReadCloser, string, error)
}

type Resumes struct {
	users repository.UserRepository
	jobs  repository.JobRepository
	store storage.ObjectStore
	ml    mlclient.Client

	now func() time.Time
}

func NewResumeUsecase(users repository.UserRepository, jobs repository.JobRepository, store storage.ObjectStore, ml mlclient.Client) *Resumes {
	return &Resumes{users: users, jobs: jobs, store: store, ml: ml, now: time.Now}
}

// Upload is write-new-then-delete-old: the replacement object is stored
// and parsed before the user row is touched, and the previous object is
// removed only after the new state is durable. A parser failure leaves
// the user exactly as before, with the half-uploaded object cleaned up
// best effort.
func (u *Resumes) Upload(ctx context.Context, actor user.User, filename string, data []byte) (UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := resumeContentTypes[ext]
	if !ok {
		return UploadResult{}, ErrUnsupportedFileType
	}
	if len(data) == 0 {
		return UploadResult{}, ErrEmptyFile
	}
	if len(data) > maxResumeSize {
		return UploadResult{}, ErrFileTooLarge
	}

	key := fmt.Sprintf("resumes/%d-%s", u.now().UnixMilli(), sanitizeFilename(filename))
	if err := u.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return UploadResult{}, err
	}

	skills, err := u.ml.ParseResume(ctx, filename, bytes.NewReader(data))
	if err != nil {
		_ = u.store.Delete(ctx, key)
		return UploadResult{}, fmt.Errorf("%w: %v", ErrParserUnavailable, err)
	}
	skills = matching.NormalizeSkills(skills)

	if err := u.users.UpdateResume(ctx, actor.ID, key, skills); err != nil {
		_ = u.store.Delete(ctx, key)
		return UploadResult{}, err
	}

	if actor.ResumeKey != "" && actor.ResumeKey != key {
		_ = u.store.Delete(ctx, actor.ResumeKey)
	}

	return UploadResult{ResumeKey: key, Skills: skills}, nil
}

// Recommend ranks the active catalog against the actor's parsed skills.
func (u *Resumes) Recommend(ctx context.Context, actor user.User) ([]mlclient.JobMatch, error) {
	if len(actor.Skills) == 0 {
		return nil, ErrNoSkillsOnFile
	}

	active, err := u.jobs.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return []mlclient.JobMatch{}, nil
	}

	candidates := make([]mlclient.JobForMatching, 0, len(active))
	for _, j := range active {
		candidates = append(candidates, mlclient.JobForMatching{
			ID:             j.ID.String(),
			Title:          j.Title,
			RequiredSkills: j.RequiredSkills,
		})
	}

	matches, err := u.ml.MatchJobs(ctx, actor.Skills, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatcherUnavailable, err)
	}
	return matches, nil
}

func (u *Resumes) Download(ctx context.Context, actor user.User) (io.ReadCloser, string, error) {
	if !actor.HasResume() {
		return nil, "", ErrNoResumeOnFile
	}
	rc, err := u.store.Get(ctx, actor.ResumeKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrNoResumeOnFile
		}
		return nil, "", err
	}
	return rc, actor.ResumeKey, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "resume"
	}
	return b.String()
}

var _ ResumeUsecase = (*Resumes)(nil)
