package applicationsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/application"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/google/uuid"
)

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	jobs            application.JobLookup
	members         application.MembershipChecker
	now             func() time.Time
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	jobs application.JobLookup,
	members application.MembershipChecker,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		jobs:            jobs,
		members:         members,
		now:             time.Now,
	}
}

// Apply submits the candidate's application to a published job
func (s *ApplicationService) Apply(ctx context.Context, jobID kernel.JobID, req application.ApplyRequest, actor *kernel.Actor) (*application.ApplicationResponse, error) {
	if actor == nil || !actor.IsCandidate() {
		return nil, application.ErrCandidateOnly()
	}
	if jobID.IsEmpty() {
		return nil, job.ErrJobNotFound()
	}

	req.Normalize()
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	now := s.now()
	newApplication := &application.Application{
		ID:          kernel.NewApplicationID(uuid.NewString()),
		JobID:       jobID,
		CandidateID: actor.UserID,
		CoverLetter: req.CoverLetter,
		Status:      application.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.applicationRepo.Apply(ctx, newApplication); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"application_id": newApplication.ID,
		"job_id":         jobID,
		"candidate_id":   actor.UserID,
	}).Info("application submitted")

	resp := newApplication.ToResponse()
	return &resp, nil
}

// Withdraw lets a candidate pull back their own application
func (s *ApplicationService) Withdraw(ctx context.Context, id kernel.ApplicationID, actor *kernel.Actor) (*application.ApplicationResponse, error) {
	if actor == nil {
		return nil, application.ErrInsufficientPermissions()
	}

	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != actor.UserID {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id)
	}

	if err := app.Withdraw(s.now()); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.UpdateStatus(ctx, app); err != nil {
		return nil, err
	}

	resp := app.ToResponse()
	return &resp, nil
}

// UpdateStatus moves an application along the review pipeline
func (s *ApplicationService) UpdateStatus(ctx context.Context, id kernel.ApplicationID, req application.UpdateStatusRequest, actor *kernel.Actor) (*application.ApplicationResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireJobManager(ctx, app.JobID, actor); err != nil {
		// Applications of other companies read as missing
		if errx.IsCode(err, job.CodeJobNotFound) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id)
		}
		return nil, err
	}

	if err := app.UpdateStatus(req.Status, s.now()); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.UpdateStatus(ctx, app); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"application_id": id,
		"status":         app.Status,
		"reviewer_id":    actor.UserID,
	}).Info("application status updated")

	resp := app.ToResponse()
	return &resp, nil
}

// ListMine lists the caller's applications
func (s *ApplicationService) ListMine(ctx context.Context, req application.ListMyApplicationsRequest, actor *kernel.Actor) (*application.PaginatedApplicationsWithJobResponse, error) {
	if actor == nil || !actor.IsCandidate() {
		return nil, application.ErrCandidateOnly()
	}
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	return s.applicationRepo.ListByCandidate(ctx, actor.UserID, kernel.NewPaginationOptions(req.Page, req.Limit))
}

// ListForJob lists the applicants of a job the caller manages
func (s *ApplicationService) ListForJob(ctx context.Context, jobID kernel.JobID, req application.ListJobApplicationsRequest, actor *kernel.Actor) (*application.PaginatedApplicationsWithCandidateResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	if err := s.requireJobManager(ctx, jobID, actor); err != nil {
		return nil, err
	}

	return s.applicationRepo.ListByJob(ctx, jobID, application.ApplicationStatus(req.Status),
		kernel.NewPaginationOptions(req.Page, req.Limit))
}

// requireJobManager fails unless actor manages the company owning jobID
func (s *ApplicationService) requireJobManager(ctx context.Context, jobID kernel.JobID, actor *kernel.Actor) error {
	if actor == nil {
		return application.ErrInsufficientPermissions()
	}
	companyID, err := s.jobs.CompanyOf(ctx, jobID)
	if err != nil {
		return err
	}
	ok, err := s.members.CanManage(ctx, actor, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return job.ErrJobNotFound().WithDetail("job_id", jobID)
	}
	return nil
}
