package savedjob

import (
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/job"
)

// ListSavedJobsRequest - the caller's bookmarks
type ListSavedJobsRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// SavedJobResponse - a bookmarked job with the time it was saved
type SavedJobResponse struct {
	Job     job.JobResponse `json:"job"`
	SavedAt time.Time       `json:"saved_at"`
}

type PaginatedSavedJobsResponse = kernel.Paginated[SavedJobResponse]
