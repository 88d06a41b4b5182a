package dto

import (
	"time"

	"campus-hire/internal/domain/application"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	JobID         uuid.UUID  `json:"jobId"`
	Status        string     `json:"status"`
	FitScore      int        `json:"fitScore"`
	Notes         string     `json:"notes,omitempty"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	InterviewLink string     `json:"interviewLink,omitempty"`
	AppliedAt     time.Time  `json:"appliedAt"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		JobID:         a.JobID,
		Status:        string(a.Status),
		FitScore:      a.FitScore,
		Notes:         a.Notes,
		InterviewDate: a.InterviewDate,
		InterviewLink: a.InterviewLink,
		AppliedAt:     a.AppliedAt,
	}
}

// ApplicationWithJobResponse is the applicant's own view.
type ApplicationWithJobResponse struct {
	ApplicationResponse
	JobTitle    string `json:"jobTitle"`
	CompanyName string `json:"companyName"`
	JobActive   bool   `json:"jobActive"`
}

func NewApplicationWithJobResponses(items []repository.ApplicationWithJob) []ApplicationWithJobResponse {
	out := make([]ApplicationWithJobResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ApplicationWithJobResponse{
			ApplicationResponse: NewApplicationResponse(item.Application),
			JobTitle:            item.JobTitle,
			CompanyName:         item.CompanyName,
			JobActive:           item.JobActive,
		})
	}
	return out
}

// ApplicationWithUserResponse is the recruiter/admin view.
type ApplicationWithUserResponse struct {
	ApplicationResponse
	UserName   string   `json:"userName"`
	UserEmail  string   `json:"userEmail"`
	UserSkills []string `json:"userSkills"`
}

func NewApplicationWithUserResponses(items []repository.ApplicationWithUser) []ApplicationWithUserResponse {
	out := make([]ApplicationWithUserResponse, 0, len(items))
	for _, item := range items {
		skills := item.UserSkills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, ApplicationWithUserResponse{
			ApplicationResponse: NewApplicationResponse(item.Application),
			UserName:            item.UserName,
			UserEmail:           item.UserEmail,
			UserSkills:          skills,
		})
	}
	return out
}
