package dto

import (
	"time"

	"campus-hire/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID             uuid.UUID  `json:"id"`
	RecruiterID    *uuid.UUID `json:"recruiterId,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RequiredSkills []string   `json:"requiredSkills"`
	CompanyName    string     `json:"companyName"`
	RecruiterName  string     `json:"recruiterName"`
	Location       string     `json:"location"`
	Salary         string     `json:"salary,omitempty"`
	Type           string     `json:"type,omitempty"`
	Experience     string     `json:"experience,omitempty"`
	Remote         bool       `json:"remote"`
	IsActive       bool       `json:"isActive"`
	PostedAt       time.Time  `json:"postedAt"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		Description:    j.Description,
		RequiredSkills: skills,
		CompanyName:    j.CompanyName,
		RecruiterName:  j.RecruiterName,
		Location:       j.Location,
		Salary:         j.Salary,
		Type:           j.Type,
		Experience:     j.Experience,
		Remote:         j.Remote,
		IsActive:       j.IsActive,
		PostedAt:       j.PostedAt,
	}
}

func NewJobResponses(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}
