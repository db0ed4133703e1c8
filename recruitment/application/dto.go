package application

import (
	"strings"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

// ApplyRequest - DTO for applying to a job
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter" validate:"max=5000"`
}

// Normalize trims free text in place
func (r *ApplyRequest) Normalize() {
	r.CoverLetter = strings.TrimSpace(r.CoverLetter)
}

// UpdateStatusRequest - Request to update application status
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=reviewing shortlisted interviewed offered hired rejected"`
}

// ListMyApplicationsRequest - a candidate's own applications
type ListMyApplicationsRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ListJobApplicationsRequest - applicants of one job
type ListJobApplicationsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending reviewing shortlisted interviewed offered hired rejected withdrawn"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// JobSummary is the job shown next to a candidate's application
type JobSummary struct {
	ID          kernel.JobID     `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Status      string           `json:"status"`
	CompanyID   kernel.CompanyID `json:"company_id"`
	CompanyName string           `json:"company_name"`
}

// CandidateSummary is the applicant shown to employers
type CandidateSummary struct {
	ID       kernel.UserID `json:"id"`
	FullName string        `json:"full_name"`
	Email    kernel.Email  `json:"email"`
}

// ApplicationWithJob - an application as its candidate sees it
type ApplicationWithJob struct {
	Application
	Job JobSummary `json:"job"`
}

// ApplicationWithCandidate - an application as the employer sees it
type ApplicationWithCandidate struct {
	Application
	Candidate CandidateSummary `json:"candidate"`
}

// ApplicationResponse - DTO for returning application data
type ApplicationResponse struct {
	ID          kernel.ApplicationID `json:"id"`
	JobID       kernel.JobID         `json:"job_id"`
	CandidateID kernel.UserID        `json:"candidate_id"`
	CoverLetter string               `json:"cover_letter"`
	Status      ApplicationStatus    `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ToResponse converts an application to its response DTO
func (a *Application) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		CandidateID: a.CandidateID,
		CoverLetter: a.CoverLetter,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Response type aliases for paginated applications
type PaginatedApplicationsWithJobResponse = kernel.Paginated[ApplicationWithJob]
type PaginatedApplicationsWithCandidateResponse = kernel.Paginated[ApplicationWithCandidate]
