// Package httpx holds the JSON envelope shared by every API handler.
package httpx

import (
	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success     bool               `json:"success"`
	Data        any                `json:"data,omitempty"`
	Error       *errx.HTTPResponse `json:"error,omitempty"`
	Total       *int               `json:"total,omitempty"`
	Page        *int               `json:"page,omitempty"`
	Limit       *int               `json:"limit,omitempty"`
	HasNext     *bool              `json:"has_next,omitempty"`
	HasPrevious *bool              `json:"has_previous,omitempty"`
}

// OK writes data with status 200
func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{Success: true, Data: data})
}

// Created writes data with status 201
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

// NoContent answers 200 with an empty success envelope
func NoContent(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Response{Success: true})
}

// Page writes a paginated result with its paging metadata
func Page[T any](c *fiber.Ctx, p *kernel.Paginated[T]) error {
	total := p.Page.Total
	number := p.Page.Number
	size := p.Page.Size
	hasNext := p.Page.HasNext
	hasPrev := p.Page.HasPrevious

	return c.Status(fiber.StatusOK).JSON(Response{
		Success:     true,
		Data:        p.Items,
		Total:       &total,
		Page:        &number,
		Limit:       &size,
		HasNext:     &hasNext,
		HasPrevious: &hasPrev,
	})
}

// ErrorHandler converts handler errors into the envelope. It is installed as
// the fiber ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(Response{
			Success: false,
			Error: &errx.HTTPResponse{
				Type:    fiberErrorType(e.Code),
				Code:    errx.Code("HTTP_" + httpCodeName(e.Code)),
				Message: e.Message,
			},
		})
	}

	if e, ok := errx.As(err); ok {
		status := e.HTTPStatus
		if status == 0 {
			status = e.Type.HTTPStatus()
		}
		if status >= fiber.StatusInternalServerError {
			logx.WithFields(logx.Fields{
				"code":   e.Code,
				"method": c.Method(),
				"path":   c.Path(),
			}).Errorf("request failed: %v", e)
		}
		resp := e.ToHTTPResponse()
		return c.Status(status).JSON(Response{Success: false, Error: &resp})
	}

	logx.WithFields(logx.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Errorf("internal server error: %v", err)

	return c.Status(fiber.StatusInternalServerError).JSON(Response{
		Success: false,
		Error: &errx.HTTPResponse{
			Type:    errx.TypeInternal,
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
		},
	})
}

func fiberErrorType(status int) errx.Type {
	switch status {
	case fiber.StatusNotFound:
		return errx.TypeNotFound
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return errx.TypeAuthorization
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return errx.TypeValidation
	case fiber.StatusConflict:
		return errx.TypeConflict
	}
	if status >= fiber.StatusInternalServerError {
		return errx.TypeInternal
	}
	return errx.TypeBusiness
}

func httpCodeName(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return "ERROR"
	}
}
