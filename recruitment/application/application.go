package application

import (
	"slices"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

// ApplicationStatus represents the status of an application
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"     // Initial submission
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"   // Being reviewed
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted" // Passed initial review
	ApplicationStatusInterviewed ApplicationStatus = "interviewed" // Interview held
	ApplicationStatusOffered     ApplicationStatus = "offered"     // Offer extended
	ApplicationStatusHired       ApplicationStatus = "hired"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn" // Withdrawn by candidate
)

// reviewTransitions lists the statuses an employer may move an application to
var reviewTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:     {ApplicationStatusReviewing, ApplicationStatusRejected},
	ApplicationStatusReviewing:   {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusInterviewed, ApplicationStatusRejected},
	ApplicationStatusInterviewed: {ApplicationStatusOffered, ApplicationStatusRejected},
	ApplicationStatusOffered:     {ApplicationStatusHired, ApplicationStatusRejected},
}

type Application struct {
	ID          kernel.ApplicationID `json:"id"`
	JobID       kernel.JobID         `json:"job_id"`
	CandidateID kernel.UserID        `json:"candidate_id"`
	CoverLetter string               `json:"cover_letter"`
	Status      ApplicationStatus    `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsActive checks if the application is still in the hiring pipeline
func (a *Application) IsActive() bool {
	return a.Status != ApplicationStatusHired &&
		a.Status != ApplicationStatusRejected &&
		a.Status != ApplicationStatusWithdrawn
}

// CanUpdateStatus checks if an employer may move the application to newStatus
func (a *Application) CanUpdateStatus(newStatus ApplicationStatus) bool {
	allowed, ok := reviewTransitions[a.Status]
	if !ok {
		return false
	}
	return slices.Contains(allowed, newStatus)
}

// UpdateStatus updates the application status
func (a *Application) UpdateStatus(newStatus ApplicationStatus, now time.Time) error {
	if !a.CanUpdateStatus(newStatus) {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", newStatus)
	}

	a.Status = newStatus
	a.UpdatedAt = now
	return nil
}

// Withdraw marks the application as withdrawn
func (a *Application) Withdraw(now time.Time) error {
	if !a.IsActive() {
		return ErrCannotWithdraw().WithDetail("status", a.Status)
	}

	a.Status = ApplicationStatusWithdrawn
	a.UpdatedAt = now
	return nil
}
