package savedjob

import (
	"context"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/job"
)

type Repository interface {
	// Save bookmarks a published job. Saving twice keeps the first saved_at.
	// Returns JOB.NOT_FOUND or SAVED_JOB.JOB_NOT_PUBLISHED.
	Save(ctx context.Context, saved *SavedJob) error

	// Remove deletes the bookmark, a no-op when absent
	Remove(ctx context.Context, userID kernel.UserID, jobID kernel.JobID) error

	// ListByUser retrieves a user's bookmarks, newest first
	ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[SavedJob], error)
}

// JobReader loads job listings in bulk
type JobReader interface {
	GetListings(ctx context.Context, ids []kernel.JobID) ([]job.Listing, error)
}
