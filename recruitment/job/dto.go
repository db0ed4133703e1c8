package job

import (
	"strings"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/company"
)

// MaxSkillsPerJob bounds the skills attached to one job
const MaxSkillsPerJob = 30

// SkillAssignment attaches a catalogue skill to a job
type SkillAssignment struct {
	SkillID    kernel.SkillID `json:"skill_id" validate:"required,max=64"`
	IsRequired bool           `json:"is_required"`
}

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title           string            `json:"title" validate:"required,min=1,max=200"`
	Description     string            `json:"description" validate:"required,min=1,max=10000"`
	Requirements    string            `json:"requirements" validate:"max=5000"`
	Benefits        string            `json:"benefits" validate:"max=5000"`
	SalaryMin       *int64            `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax       *int64            `json:"salary_max" validate:"omitempty,min=0"`
	Currency        kernel.Currency   `json:"currency" validate:"omitempty,oneof=VND USD"`
	EmploymentType  EmploymentType    `json:"employment_type" validate:"required,oneof=full_time part_time contract internship freelance"`
	ExperienceLevel ExperienceLevel   `json:"experience_level" validate:"required,oneof=intern fresher junior middle senior lead manager"`
	Location        string            `json:"location" validate:"max=200"`
	IsRemote        bool              `json:"is_remote"`
	CompanyID       kernel.CompanyID  `json:"company_id" validate:"required,max=64"`
	ExpiresAt       *time.Time        `json:"expires_at"`
	Skills          []SkillAssignment `json:"skills" validate:"max=30,dive"`
}

// Normalize trims free-text fields in place
func (r *CreateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Requirements = strings.TrimSpace(r.Requirements)
	r.Benefits = strings.TrimSpace(r.Benefits)
	r.Location = strings.TrimSpace(r.Location)
}

// UpdateJobRequest - DTO for updating an existing job. Nil fields are left untouched.
type UpdateJobRequest struct {
	Title           *string            `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string            `json:"description" validate:"omitempty,min=1,max=10000"`
	Requirements    *string            `json:"requirements" validate:"omitempty,max=5000"`
	Benefits        *string            `json:"benefits" validate:"omitempty,max=5000"`
	SalaryMin       *int64             `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax       *int64             `json:"salary_max" validate:"omitempty,min=0"`
	Currency        *kernel.Currency   `json:"currency" validate:"omitempty,oneof=VND USD"`
	EmploymentType  *EmploymentType    `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract internship freelance"`
	ExperienceLevel *ExperienceLevel   `json:"experience_level" validate:"omitempty,oneof=intern fresher junior middle senior lead manager"`
	Location        *string            `json:"location" validate:"omitempty,max=200"`
	IsRemote        *bool              `json:"is_remote"`
	ExpiresAt       *time.Time         `json:"expires_at"`
	Status          *JobStatus         `json:"status" validate:"omitempty,oneof=draft published paused closed expired"`
	Skills          *[]SkillAssignment `json:"skills" validate:"omitempty,max=30,dive"`

	// ClearSalary resets both salary bounds to negotiable
	ClearSalary bool `json:"clear_salary" validate:"excluded_with=SalaryMin SalaryMax"`
	// ClearExpiresAt removes the expiry date
	ClearExpiresAt bool `json:"clear_expires_at" validate:"excluded_with=ExpiresAt"`
}

// Normalize trims free-text fields in place
func (r *UpdateJobRequest) Normalize() {
	for _, s := range []*string{r.Title, r.Description, r.Requirements, r.Benefits, r.Location} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// ListJobsRequest - public listing of published jobs
type ListJobsRequest struct {
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	CompanyID string `query:"company_id" validate:"omitempty,max=64"`
}

// SearchJobsRequest - DTO for searching jobs
type SearchJobsRequest struct {
	Query           string   `query:"query" validate:"omitempty,max=200"`
	Location        string   `query:"location" validate:"omitempty,max=200"`
	EmploymentType  string   `query:"employment_type" validate:"omitempty,oneof=full_time part_time contract internship freelance"`
	ExperienceLevel string   `query:"experience_level" validate:"omitempty,oneof=intern fresher junior middle senior lead manager"`
	SalaryMin       *int64   `query:"salary_min" validate:"omitempty,min=0"`
	SalaryMax       *int64   `query:"salary_max" validate:"omitempty,min=0"`
	CompanyID       string   `query:"company_id" validate:"omitempty,max=64"`
	IsRemote        *bool    `query:"is_remote"`
	Skills          []string `query:"skills" validate:"max=30,dive,required,max=64"`
	SortBy          string   `query:"sort_by"`
	SortOrder       string   `query:"sort_order"`
	Page            int      `query:"page" validate:"omitempty,min=1"`
	Limit           int      `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ToFilter compiles the request into a filter. Visibility is applied by the caller.
func (r SearchJobsRequest) ToFilter() SearchFilter {
	f := SearchFilter{
		Query:     strings.TrimSpace(r.Query),
		Location:  strings.TrimSpace(r.Location),
		SalaryMin: r.SalaryMin,
		SalaryMax: r.SalaryMax,
		IsRemote:  r.IsRemote,
	}
	if r.EmploymentType != "" {
		et := EmploymentType(r.EmploymentType)
		f.EmploymentType = &et
	}
	if r.ExperienceLevel != "" {
		el := ExperienceLevel(r.ExperienceLevel)
		f.ExperienceLevel = &el
	}
	if r.CompanyID != "" {
		id := kernel.CompanyID(r.CompanyID)
		f.CompanyID = &id
	}
	f.SkillIDs = UniqueSkillIDs(r.Skills)
	return f
}

// CompanyJobsRequest - jobs of one company
type CompanyJobsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=draft published paused closed expired"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Response type alias for paginated jobs
type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning job data
type JobResponse struct {
	ID               kernel.JobID     `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	Requirements     string           `json:"requirements"`
	Benefits         string           `json:"benefits"`
	SalaryMin        *int64           `json:"salary_min,omitempty"`
	SalaryMax        *int64           `json:"salary_max,omitempty"`
	Currency         kernel.Currency  `json:"currency"`
	EmploymentType   EmploymentType   `json:"employment_type"`
	ExperienceLevel  ExperienceLevel  `json:"experience_level"`
	Location         string           `json:"location"`
	IsRemote         bool             `json:"is_remote"`
	Status           JobStatus        `json:"status"`
	ApplicationCount int              `json:"application_count"`
	ViewCount        int64            `json:"view_count"`
	CompanyID        kernel.CompanyID `json:"company_id"`
	Company          company.Summary  `json:"company"`
	Skills           []JobSkill       `json:"skills"`
	MatchedSkills    *int             `json:"matched_skills,omitempty"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// JobDetailsResponse - a single job with the caller's state
type JobDetailsResponse struct {
	JobResponse
	IsSaved    bool `json:"is_saved"`
	HasApplied bool `json:"has_applied"`
}

// NewJobResponse flattens a listing
func NewJobResponse(l Listing) JobResponse {
	skills := l.Skills
	if skills == nil {
		skills = []JobSkill{}
	}
	j := l.Job
	return JobResponse{
		ID:               j.ID,
		Title:            j.Title,
		Slug:             j.Slug,
		Description:      j.Description,
		Requirements:     j.Requirements,
		Benefits:         j.Benefits,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		Currency:         j.Currency,
		EmploymentType:   j.EmploymentType,
		ExperienceLevel:  j.ExperienceLevel,
		Location:         j.Location,
		IsRemote:         j.IsRemote,
		Status:           j.Status,
		ApplicationCount: j.ApplicationCount,
		ViewCount:        j.ViewCount,
		CompanyID:        j.CompanyID,
		Company:          l.Company,
		Skills:           skills,
		ExpiresAt:        j.ExpiresAt,
		PublishedAt:      j.PublishedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

// UniqueSkillIDs trims, drops blanks and de-duplicates while keeping order
func UniqueSkillIDs(raw []string) []kernel.SkillID {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]kernel.SkillID, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, kernel.SkillID(r))
	}
	return out
}

// UniqueAssignments de-duplicates assignments by skill, the last one winning
func UniqueAssignments(in []SkillAssignment) []SkillAssignment {
	if len(in) == 0 {
		return nil
	}
	index := make(map[kernel.SkillID]int, len(in))
	out := make([]SkillAssignment, 0, len(in))
	for _, a := range in {
		a.SkillID = kernel.SkillID(strings.TrimSpace(a.SkillID.String()))
		if i, ok := index[a.SkillID]; ok {
			out[i] = a
			continue
		}
		index[a.SkillID] = len(out)
		out = append(out, a)
	}
	return out
}
