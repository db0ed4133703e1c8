package applicationapi

import (
	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/application"
	"github.com/Abraxas-365/vieclam/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// Apply submits an application to a job
// POST /api/jobs/:id/apply
func (h *Handlers) Apply(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req application.ApplyRequest
	// An empty body is a valid application without cover letter
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return validatex.Field("body", err.Error())
		}
	}

	app, err := h.service.Apply(c.UserContext(), jobID, req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.Created(c, app)
}

// Withdraw withdraws the caller's application
// POST /api/applications/:id/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	id := kernel.ApplicationID(c.Params("id"))
	if id.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	app, err := h.service.Withdraw(c.UserContext(), id, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.OK(c, app)
}

// UpdateStatus moves an application through review
// PATCH /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id := kernel.ApplicationID(c.Params("id"))
	if id.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.Field("body", err.Error())
	}

	app, err := h.service.UpdateStatus(c.UserContext(), id, req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.OK(c, app)
}

// ListMine lists the caller's applications
// GET /api/me/applications?page&limit
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	var req application.ListMyApplicationsRequest
	if err := c.QueryParser(&req); err != nil {
		return validatex.Field("query", err.Error())
	}

	apps, err := h.service.ListMine(c.UserContext(), req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.Page(c, apps)
}

// ListForJob lists the applicants of a job
// GET /api/jobs/:id/applications?status&page&limit
func (h *Handlers) ListForJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req application.ListJobApplicationsRequest
	if err := c.QueryParser(&req); err != nil {
		return validatex.Field("query", err.Error())
	}

	apps, err := h.service.ListForJob(c.UserContext(), jobID, req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.Page(c, apps)
}

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	app.Post("/api/jobs/:id/apply",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsWrite),
		handlers.Apply,
	)
	app.Get("/api/jobs/:id/applications",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.ListForJob,
	)

	api := app.Group("/api/applications", authMiddleware.Authenticate())
	api.Post("/:id/withdraw", handlers.Withdraw)
	api.Patch("/:id/status",
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.UpdateStatus,
	)

	app.Get("/api/me/applications", authMiddleware.Authenticate(), handlers.ListMine)
}
