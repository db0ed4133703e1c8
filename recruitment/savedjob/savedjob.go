package savedjob

import (
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

// SavedJob is a job bookmarked by a user
type SavedJob struct {
	UserID    kernel.UserID `json:"user_id"`
	JobID     kernel.JobID  `json:"job_id"`
	CreatedAt time.Time     `json:"saved_at"`
}
