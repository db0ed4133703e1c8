package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an error for the API boundary
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// HTTPStatus returns the default HTTP status for an error type
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the structured error used across the application
type Error struct {
	Type       Type           `json:"type"`
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors carrying the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithDetail attaches a single detail entry
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given entries into the details map
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause sets the underlying cause
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// HTTPResponse is the wire shape of an error
type HTTPResponse struct {
	Type    Type           `json:"type"`
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToHTTPResponse strips the cause so internals never leak to callers
func (e *Error) ToHTTPResponse() HTTPResponse {
	return HTTPResponse{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// New creates an error without a registered code
func New(message string, errType Type) *Error {
	return &Error{
		Type:       errType,
		Code:       Code(errType),
		Message:    message,
		HTTPStatus: errType.HTTPStatus(),
	}
}

// Wrap wraps err with a message and type. Errors that are already *Error
// pass through untouched so domain errors survive service layers.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return New(message, errType).WithCause(err)
}

// As extracts an *Error from the chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code
func IsCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, errType Type) bool {
	e, ok := As(err)
	return ok && e.Type == errType
}
