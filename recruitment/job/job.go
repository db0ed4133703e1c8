package job

import (
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/company"
)

// JobStatus represents the status of a job posting
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"     // Created but not published
	JobStatusPublished JobStatus = "published" // Active and accepting applications
	JobStatusPaused    JobStatus = "paused"    // Temporarily hidden
	JobStatusClosed    JobStatus = "closed"    // No longer accepting applications
	JobStatusExpired   JobStatus = "expired"   // Past expires_at
)

func (s JobStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// statusTransitions lists the statuses reachable from each status
var statusTransitions = map[JobStatus][]JobStatus{
	JobStatusDraft:     {JobStatusPublished, JobStatusClosed},
	JobStatusPublished: {JobStatusPaused, JobStatusClosed, JobStatusExpired},
	JobStatusPaused:    {JobStatusPublished, JobStatusClosed},
	JobStatusClosed:    {JobStatusPublished},
	JobStatusExpired:   {JobStatusPublished},
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentFreelance  EmploymentType = "freelance"
)

type ExperienceLevel string

const (
	ExperienceIntern  ExperienceLevel = "intern"
	ExperienceFresher ExperienceLevel = "fresher"
	ExperienceJunior  ExperienceLevel = "junior"
	ExperienceMiddle  ExperienceLevel = "middle"
	ExperienceSenior  ExperienceLevel = "senior"
	ExperienceLead    ExperienceLevel = "lead"
	ExperienceManager ExperienceLevel = "manager"
)

type Job struct {
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
	CompanyID        kernel.CompanyID `json:"company_id"`
	PostedBy         kernel.UserID    `json:"posted_by"`
	Status           JobStatus        `json:"status"`
	ApplicationCount int              `json:"application_count"`
	ViewCount        int64            `json:"view_count"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// JobSkill is a skill attached to a job
type JobSkill struct {
	SkillID    kernel.SkillID `json:"id"`
	Name       string         `json:"name"`
	Category   string         `json:"category,omitempty"`
	IsRequired bool           `json:"is_required"`
}

// Listing is a job with its company summary and skills, the read model of every query
type Listing struct {
	Job     Job             `json:"job"`
	Company company.Summary `json:"company"`
	Skills  []JobSkill      `json:"skills"`
}

// Stamp is the row version of a job plus the counters that move without an update
type Stamp struct {
	UpdatedAt        time.Time `db:"updated_at"`
	ApplicationCount int       `db:"application_count"`
	ViewCount        int64     `db:"view_count"`
}

// ViewerState is what the authenticated caller has done with a job
type ViewerState struct {
	IsSaved    bool `db:"is_saved"`
	HasApplied bool `db:"has_applied"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsPublished checks if the job is currently published
func (j *Job) IsPublished() bool {
	return j.Status == JobStatusPublished
}

// IsVisibleAt reports whether the public may see the job at now.
// Published jobs past expires_at are hidden before the sweep flips them.
func (j *Job) IsVisibleAt(now time.Time) bool {
	return j.IsPublished() && !j.IsExpiredAt(now)
}

// Salary returns the salary band of the job
func (j *Job) Salary() kernel.SalaryRange {
	return kernel.SalaryRange{Min: j.SalaryMin, Max: j.SalaryMax}
}

// CanTransitionTo reports whether the job may move to status. Staying put is always allowed.
func (j *Job) CanTransitionTo(status JobStatus) bool {
	if j.Status == status {
		return true
	}
	for _, next := range statusTransitions[j.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// TransitionTo moves the job to status. published_at is stamped on the first publish only.
func (j *Job) TransitionTo(status JobStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatusTransition().
			WithDetail("to", status)
	}
	if j.Status == status {
		return nil
	}
	if !j.CanTransitionTo(status) {
		return ErrInvalidStatusTransition().
			WithDetail("from", j.Status).
			WithDetail("to", status)
	}

	j.Status = status
	if status == JobStatusPublished && j.PublishedAt == nil {
		t := now
		j.PublishedAt = &t
	}
	j.UpdatedAt = now
	return nil
}

// IsExpiredAt reports whether a published job is past its expiry
func (j *Job) IsExpiredAt(now time.Time) bool {
	return j.ExpiresAt != nil && !j.ExpiresAt.After(now)
}

// CanBeDeleted is false once anyone has applied
func (j *Job) CanBeDeleted() bool {
	return j.ApplicationCount == 0
}

// CountMatchedSkills counts how many of wanted appear among skills
func CountMatchedSkills(skills []JobSkill, wanted []kernel.SkillID) int {
	if len(wanted) == 0 || len(skills) == 0 {
		return 0
	}
	set := make(map[kernel.SkillID]struct{}, len(wanted))
	for _, id := range wanted {
		set[id] = struct{}{}
	}
	n := 0
	for _, s := range skills {
		if _, ok := set[s.SkillID]; ok {
			n++
		}
	}
	return n
}
