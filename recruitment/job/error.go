package job

import (
	"net/http"

	"github.com/Abraxas-365/vieclam/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("JOB")

// Error codes
var (
	CodeJobNotFound             = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeSlugTaken               = ErrRegistry.Register("SLUG_TAKEN", errx.TypeConflict, http.StatusConflict, "Job slug is already in use")
	CodeSlugExhausted           = ErrRegistry.Register("SLUG_EXHAUSTED", errx.TypeConflict, http.StatusConflict, "Could not find a free slug for this title")
	CodeJobHasApplications      = ErrRegistry.Register("HAS_APPLICATIONS", errx.TypeBusiness, http.StatusConflict, "Cannot delete job with applications")
	CodeInvalidSalaryRange      = ErrRegistry.Register("INVALID_SALARY_RANGE", errx.TypeValidation, http.StatusBadRequest, "salary_min must not exceed salary_max")
	CodeInvalidStatusTransition = ErrRegistry.Register("INVALID_STATUS_TRANSITION", errx.TypeBusiness, http.StatusUnprocessableEntity, "Job cannot move to the requested status")
	CodeUnknownSkills           = ErrRegistry.Register("UNKNOWN_SKILLS", errx.TypeValidation, http.StatusBadRequest, "Some skills do not exist")
	CodeInvalidSort             = ErrRegistry.Register("INVALID_SORT", errx.TypeValidation, http.StatusBadRequest, "Unsupported sort field or order")
	CodeInsufficientPermissions = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
)

// Helper functions
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrSlugTaken() *errx.Error {
	return ErrRegistry.New(CodeSlugTaken)
}

func ErrSlugExhausted() *errx.Error {
	return ErrRegistry.New(CodeSlugExhausted)
}

func ErrJobHasApplications() *errx.Error {
	return ErrRegistry.New(CodeJobHasApplications)
}

func ErrInvalidSalaryRange() *errx.Error {
	return ErrRegistry.New(CodeInvalidSalaryRange)
}

func ErrInvalidStatusTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatusTransition)
}

func ErrUnknownSkills() *errx.Error {
	return ErrRegistry.New(CodeUnknownSkills)
}

func ErrInvalidSort() *errx.Error {
	return ErrRegistry.New(CodeInvalidSort)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}
