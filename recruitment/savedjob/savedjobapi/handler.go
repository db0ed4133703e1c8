package savedjobapi

import (
	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob/savedjobsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for saved jobs
type Handlers struct {
	service *savedjobsrv.SavedJobService
}

// NewHandlers creates a new saved job handlers instance
func NewHandlers(service *savedjobsrv.SavedJobService) *Handlers {
	return &Handlers{service: service}
}

// SaveJob bookmarks a job
// POST /api/jobs/:id/save
func (h *Handlers) SaveJob(c *fiber.Ctx) error {
	saved, err := h.service.Save(c.UserContext(), kernel.JobID(c.Params("id")), auth.ActorFrom(c))
	if err != nil {
		return err
	}
	return httpx.Created(c, saved)
}

// UnsaveJob removes a bookmark
// DELETE /api/jobs/:id/save
func (h *Handlers) UnsaveJob(c *fiber.Ctx) error {
	if err := h.service.Unsave(c.UserContext(), kernel.JobID(c.Params("id")), auth.ActorFrom(c)); err != nil {
		return err
	}
	return httpx.NoContent(c)
}

// ListSavedJobs lists the caller's bookmarks
// GET /api/me/saved-jobs?page&limit
func (h *Handlers) ListSavedJobs(c *fiber.Ctx) error {
	var req savedjob.ListSavedJobsRequest
	if err := c.QueryParser(&req); err != nil {
		return validatex.Field("query", err.Error())
	}

	saved, err := h.service.List(c.UserContext(), req, auth.ActorFrom(c))
	if err != nil {
		return err
	}
	return httpx.Page(c, saved)
}

// RegisterRoutes registers all saved job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	app.Post("/api/jobs/:id/save",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeSavedJobsWrite),
		handlers.SaveJob,
	)
	app.Delete("/api/jobs/:id/save",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeSavedJobsWrite),
		handlers.UnsaveJob,
	)

	app.Get("/api/me/saved-jobs",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeSavedJobsRead),
		handlers.ListSavedJobs,
	)
}
