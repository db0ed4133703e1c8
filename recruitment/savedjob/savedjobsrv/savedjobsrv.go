package savedjobsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob"
)

// SavedJobService manages a candidate's bookmarked jobs
type SavedJobService struct {
	repo savedjob.Repository
	jobs savedjob.JobReader
	now  func() time.Time
}

// NewSavedJobService creates a new saved job service
func NewSavedJobService(repo savedjob.Repository, jobs savedjob.JobReader) *SavedJobService {
	return &SavedJobService{
		repo: repo,
		jobs: jobs,
		now:  time.Now,
	}
}

// Save bookmarks a published job for the caller
func (s *SavedJobService) Save(ctx context.Context, jobID kernel.JobID, actor *kernel.Actor) (*savedjob.SavedJob, error) {
	if !actor.IsCandidate() {
		return nil, savedjob.ErrCandidateOnly()
	}
	if jobID.IsEmpty() {
		return nil, job.ErrJobNotFound()
	}

	saved := &savedjob.SavedJob{
		UserID:    actor.UserID,
		JobID:     jobID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, saved); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"job_id":  jobID,
		"user_id": actor.UserID,
	}).Debug("job saved")

	return saved, nil
}

// Unsave removes the caller's bookmark
func (s *SavedJobService) Unsave(ctx context.Context, jobID kernel.JobID, actor *kernel.Actor) error {
	if !actor.IsCandidate() {
		return savedjob.ErrCandidateOnly()
	}
	return s.repo.Remove(ctx, actor.UserID, jobID)
}

// List returns the caller's bookmarks with their jobs, newest first
func (s *SavedJobService) List(ctx context.Context, req savedjob.ListSavedJobsRequest, actor *kernel.Actor) (*savedjob.PaginatedSavedJobsResponse, error) {
	if actor == nil {
		return nil, auth.ErrMissingToken()
	}
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	page, err := s.repo.ListByUser(ctx, actor.UserID, kernel.NewPaginationOptions(req.Page, req.Limit))
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.JobID, len(page.Items))
	for i, saved := range page.Items {
		ids[i] = saved.JobID
	}
	listings, err := s.jobs.GetListings(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.JobID]job.Listing, len(listings))
	for _, l := range listings {
		byID[l.Job.ID] = l
	}

	items := make([]savedjob.SavedJobResponse, 0, len(page.Items))
	for _, saved := range page.Items {
		l, ok := byID[saved.JobID]
		if !ok {
			continue
		}
		items = append(items, savedjob.SavedJobResponse{
			Job:     job.NewJobResponse(l),
			SavedAt: saved.CreatedAt,
		})
	}

	return &savedjob.PaginatedSavedJobsResponse{
		Items: items,
		Page:  page.Page,
		Empty: len(items) == 0,
	}, nil
}
