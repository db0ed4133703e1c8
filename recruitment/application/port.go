package application

import (
	"context"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

type Repository interface {
	// Apply stores a pending application and bumps the job's application_count
	// in one transaction. The job must be published and not expired. A previously
	// withdrawn application is reactivated instead of inserted.
	// Returns APPLICATION.ALREADY_EXISTS when an active application exists.
	Apply(ctx context.Context, application *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// UpdateStatus saves the status of an application
	UpdateStatus(ctx context.Context, application *Application) error

	// ListByCandidate retrieves a candidate's applications with their jobs, newest first
	ListByCandidate(ctx context.Context, candidateID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[ApplicationWithJob], error)

	// ListByJob retrieves a job's applications with their candidates, optionally by status
	ListByJob(ctx context.Context, jobID kernel.JobID, status ApplicationStatus, pagination kernel.PaginationOptions) (*kernel.Paginated[ApplicationWithCandidate], error)
}

// JobLookup resolves the company owning a job
type JobLookup interface {
	CompanyOf(ctx context.Context, jobID kernel.JobID) (kernel.CompanyID, error)
}

// MembershipChecker decides whether an actor manages a company
type MembershipChecker interface {
	CanManage(ctx context.Context, actor *kernel.Actor, companyID kernel.CompanyID) (bool, error)
}
