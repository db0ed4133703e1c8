package job

import (
	"strings"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

// SearchFilter is the compiled set of optional job predicates. Nil or empty
// fields do not constrain the result.
type SearchFilter struct {
	Query           string
	Location        string
	EmploymentType  *EmploymentType
	ExperienceLevel *ExperienceLevel
	SalaryMin       *int64
	SalaryMax       *int64
	CompanyID       *kernel.CompanyID
	IsRemote        *bool
	SkillIDs        []kernel.SkillID
	Statuses        []JobStatus

	// ActiveAt hides jobs whose expires_at is at or before the instant
	ActiveAt *time.Time
}

// PublicFilter restricts f to jobs anyone may see at now
func PublicFilter(f SearchFilter, now time.Time) SearchFilter {
	f.Statuses = []JobStatus{JobStatusPublished}
	f.ActiveAt = &now
	return f
}

type SortField string

const (
	SortByCreatedAt        SortField = "created_at"
	SortByPublishedAt      SortField = "published_at"
	SortBySalaryMin        SortField = "salary_min"
	SortBySalaryMax        SortField = "salary_max"
	SortByTitle            SortField = "title"
	SortByApplicationCount SortField = "application_count"
)

var sortFields = map[SortField]struct{}{
	SortByCreatedAt:        {},
	SortByPublishedAt:      {},
	SortBySalaryMin:        {},
	SortBySalaryMax:        {},
	SortByTitle:            {},
	SortByApplicationCount: {},
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort is an allow-listed ordering
type Sort struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is newest first
var DefaultSort = Sort{Field: SortByCreatedAt, Order: SortDesc}

// ParseSort validates user supplied sort parameters. Empty values fall back to DefaultSort.
func ParseSort(field, order string) (Sort, error) {
	s := DefaultSort

	if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
		if _, ok := sortFields[SortField(field)]; !ok {
			return Sort{}, ErrInvalidSort().WithDetail("sort_by", field)
		}
		s.Field = SortField(field)
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
	case string(SortAsc):
		s.Order = SortAsc
	case string(SortDesc):
		s.Order = SortDesc
	default:
		return Sort{}, ErrInvalidSort().WithDetail("sort_order", order)
	}
	return s, nil
}
