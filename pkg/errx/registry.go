package errx

import (
	"fmt"
	"sync"
)

// Code is a fully qualified error code, e.g. "JOB.NOT_FOUND"
type Code string

type codeInfo struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one bounded context
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[Code]codeInfo
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[Code]codeInfo),
	}
}

// Register adds a code and returns its qualified form
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) Code {
	qualified := Code(fmt.Sprintf("%s.%s", r.prefix, code))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[qualified]; exists {
		panic(fmt.Sprintf("errx: duplicate code %s", qualified))
	}
	r.codes[qualified] = codeInfo{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return qualified
}

// New builds a fresh error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	info, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Type:       TypeInternal,
			Code:       code,
			Message:    "unregistered error code",
			HTTPStatus: TypeInternal.HTTPStatus(),
		}
	}

	return &Error{
		Type:       info.errType,
		Code:       code,
		Message:    info.message,
		HTTPStatus: info.httpStatus,
	}
}

// NewWithCause builds an error for code wrapping cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.New(code).WithCause(cause)
}

// NewWithMessage builds an error for code overriding its message
func (r *Registry) NewWithMessage(code Code, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}
