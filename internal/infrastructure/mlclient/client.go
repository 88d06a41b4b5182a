// Package mlclient talks to the external resume-analysis service. The
// service is slow on cold starts, so parse calls get a generous deadline
// while match calls stay short.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"campus-hire/internal/config"
)

// ErrUnavailable wraps every transport or non-2xx failure so callers can
// classify the dependency outage without inspecting status codes.
var ErrUnavailable = errors.New("resume analysis service unavailable")

// JobForMatching is the job snapshot sent to the ranking endpoint.
type JobForMatching struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	RequiredSkills []string `json:"requiredSkills"`
}

// JobMatch is one ranked entry from the matching endpoint.
type JobMatch struct {
	JobID         string   `json:"jobId"`
	Title         string   `json:"title"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

type Client interface {
	// ParseResume extracts a skill list from a resume file.
	ParseResume(ctx context.Context, filename string, file io.Reader) ([]string, error)
	// MatchJobs ranks the given jobs against a skill list.
	MatchJobs(ctx context.Context, skills []string, jobs []JobForMatching) ([]JobMatch, error)
}

type HTTPClient struct {
	cfg  config.MLConfig
	http *http.Client
}

func NewHTTPClient(cfg config.MLConfig) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		// Per-call deadlines come from the request context; no client-wide
		// timeout so parse and match deadlines stay independent.
		http: &http.Client{},
	}
}

func (c *HTTPClient) ParseResume(ctx context.Context, filename string, file io.Reader) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ParseTimeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy resume into request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/parse_resume"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var parsed struct {
		Skills []string `json:"skills"`
	}
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}
	return parsed.Skills, nil
}

func (c *HTTPClient) MatchJobs(ctx context.Context, skills []string, jobs []JobForMatching) ([]JobMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.MatchTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"skills": skills,
		"jobs":   jobs,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/match_jobs"), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var ranked struct {
		Matches []JobMatch `json:"matches"`
	}
	if err := c.do(req, &ranked); err != nil {
		return nil, err
	}
	return ranked.Matches, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s",
			ErrUnavailable, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) endpoint(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

var _ Client = (*HTTPClient)(nil)
