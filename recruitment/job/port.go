package job

import (
	"context"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

type Repository interface {
	// Create inserts a job. A slug collision returns JOB.SLUG_TAKEN.
	Create(ctx context.Context, job *Job) error

	// AddSkills attaches skills to a job
	AddSkills(ctx context.Context, id kernel.JobID, skills []SkillAssignment) error

	// Update saves job and, when skills is non-nil, replaces its skills in the same transaction.
	// A slug collision returns JOB.SLUG_TAKEN.
	Update(ctx context.Context, job *Job, skills *[]SkillAssignment) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// GetListing retrieves a job with company and skills by ID
	GetListing(ctx context.Context, id kernel.JobID) (*Listing, error)

	// GetListingBySlug retrieves a job with company and skills by slug
	GetListingBySlug(ctx context.Context, slug string) (*Listing, error)

	// GetStamp reads the version and counters of a job without its joins
	GetStamp(ctx context.Context, id kernel.JobID) (*Stamp, error)

	// SlugExists reports whether a job other than excludeID uses slug
	SlugExists(ctx context.Context, slug string, excludeID kernel.JobID) (bool, error)

	// Search returns one page of jobs matching filter and the total match count
	Search(ctx context.Context, filter SearchFilter, sort Sort, pagination kernel.PaginationOptions) (*kernel.Paginated[Listing], error)

	// Delete removes a job with its skills and saved entries atomically.
	// Returns JOB.HAS_APPLICATIONS when anyone applied.
	Delete(ctx context.Context, id kernel.JobID) error

	// ViewerState reports whether userID saved or applied to the job
	ViewerState(ctx context.Context, id kernel.JobID, userID kernel.UserID) (ViewerState, error)

	// IncrementViewCount bumps view_count by one
	IncrementViewCount(ctx context.Context, id kernel.JobID) error

	// ExpireDue marks published jobs past expires_at as expired and returns their slugs
	ExpireDue(ctx context.Context, now time.Time) ([]string, error)
}

// Cache holds listings by slug. A miss returns nil, nil.
type Cache interface {
	Get(ctx context.Context, slug string) (*Listing, error)
	Set(ctx context.Context, listing *Listing) error
	Invalidate(ctx context.Context, slugs ...string) error
}

// MembershipChecker decides whether an actor manages a company
type MembershipChecker interface {
	CanManage(ctx context.Context, actor *kernel.Actor, companyID kernel.CompanyID) (bool, error)
}

// SkillCatalog validates skill references
type SkillCatalog interface {
	MissingIDs(ctx context.Context, ids []kernel.SkillID) ([]kernel.SkillID, error)
}
