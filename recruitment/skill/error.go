package skill

import (
	"net/http"

	"github.com/Abraxas-365/vieclam/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("SKILL")

// Error codes
var (
	CodeSkillNotFound           = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Skill not found")
	CodeSkillAlreadyExists      = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Skill already exists")
	CodeInsufficientPermissions = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Only admins can manage skills")
)

func ErrSkillNotFound() *errx.Error {
	return ErrRegistry.New(CodeSkillNotFound)
}

func ErrSkillAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeSkillAlreadyExists)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}
