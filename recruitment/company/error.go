package company

import (
	"net/http"

	"github.com/Abraxas-365/vieclam/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("COMPANY")

// Error codes
var (
	CodeCompanyNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Company not found")
	CodeNotMember       = ErrRegistry.Register("NOT_MEMBER", errx.TypeAuthorization, http.StatusForbidden, "You are not a member of this company")
)

func ErrCompanyNotFound() *errx.Error {
	return ErrRegistry.New(CodeCompanyNotFound)
}

func ErrNotMember() *errx.Error {
	return ErrRegistry.New(CodeNotMember)
}
