package application

import (
	"net/http"

	"github.com/Abraxas-365/vieclam/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeApplicationNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeApplicationAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "You have already applied to this job")
	CodeInsufficientPermissions  = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeCandidateOnly            = ErrRegistry.Register("CANDIDATE_ONLY", errx.TypeAuthorization, http.StatusForbidden, "Only candidates can apply to jobs")
	CodeJobNotOpen               = ErrRegistry.Register("JOB_NOT_OPEN", errx.TypeBusiness, http.StatusUnprocessableEntity, "Job is not accepting applications")
	CodeInvalidStatusTransition  = ErrRegistry.Register("INVALID_STATUS_TRANSITION", errx.TypeBusiness, http.StatusUnprocessableEntity, "Invalid status transition")
	CodeCannotWithdraw           = ErrRegistry.Register("CANNOT_WITHDRAW", errx.TypeBusiness, http.StatusUnprocessableEntity, "Cannot withdraw application in current state")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrApplicationAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeApplicationAlreadyExists)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}

func ErrCandidateOnly() *errx.Error {
	return ErrRegistry.New(CodeCandidateOnly)
}

func ErrJobNotOpen() *errx.Error {
	return ErrRegistry.New(CodeJobNotOpen)
}

func ErrInvalidStatusTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatusTransition)
}

func ErrCannotWithdraw() *errx.Error {
	return ErrRegistry.New(CodeCannotWithdraw)
}
