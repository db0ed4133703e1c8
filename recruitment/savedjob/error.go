package savedjob

import (
	"net/http"

	"github.com/Abraxas-365/vieclam/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("SAVED_JOB")

// Error codes
var (
	CodeCandidateOnly   = ErrRegistry.Register("CANDIDATE_ONLY", errx.TypeAuthorization, http.StatusForbidden, "Only candidates can save jobs")
	CodeJobNotPublished = ErrRegistry.Register("JOB_NOT_PUBLISHED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Only published jobs can be saved")
)

func ErrCandidateOnly() *errx.Error {
	return ErrRegistry.New(CodeCandidateOnly)
}

func ErrJobNotPublished() *errx.Error {
	return ErrRegistry.New(CodeJobNotPublished)
}
