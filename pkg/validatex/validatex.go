// Package validatex runs struct-tag validation and reports failures as errx validation errors.
package validatex

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/go-playground/validator/v10"
)

var ErrRegistry = errx.NewRegistry("VALIDATION")

var CodeInvalidInput = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Invalid input")

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
	})
	return validate
}

// fieldName reports json names, falling back to query names, so messages match the wire
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "query", "params"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Struct validates v and returns a field-tagged validation error
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrRegistry.NewWithCause(CodeInvalidInput, err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return ErrRegistry.New(CodeInvalidInput).WithDetail("fields", fields)
}

// Field returns a validation error for a single field
func Field(field, msg string) *errx.Error {
	return ErrRegistry.New(CodeInvalidInput).WithDetail("fields", map[string]any{field: msg})
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isText(fe.Kind()) {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isText(fe.Kind()) {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email"
	case "excluded_with":
		return fmt.Sprintf("cannot be combined with %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func isText(k reflect.Kind) bool {
	return k == reflect.String
}
