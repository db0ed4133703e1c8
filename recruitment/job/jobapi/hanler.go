package jobapi

import (
	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateJob creates a new job posting as a draft
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.Field("body", err.Error())
	}

	newJob, err := h.service.CreateJob(c.UserContext(), req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.Created(c, newJob)
}

// UpdateJob applies a partial update
// PATCH /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.Field("body", err.Error())
	}

	updatedJob, err := h.service.UpdateJob(c.UserContext(), jobID, req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.OK(c, updatedJob)
}

// DeleteJob deletes a job nobody has applied to
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteJob(c.UserContext(), jobID, auth.ActorFrom(c)); err != nil {
		return err
	}

	return httpx.NoContent(c)
}

// ListJobs lists published jobs
// GET /api/jobs?page&limit&company_id
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	var req job.ListJobsRequest
	if err := c.QueryParser(&req); err != nil {
		return validatex.Field("query", err.Error())
	}

	jobs, err := h.service.ListJobs(c.UserContext(), req)
	if err != nil {
		return err
	}

	return httpx.Page(c, jobs)
}

// SearchJobs searches published jobs
// GET /api/jobs/search
func (h *Handlers) SearchJobs(c *fiber.Ctx) error {
	var req job.SearchJobsRequest
	if err := c.QueryParser(&req); err != nil {
		return validatex.Field("query", err.Error())
	}

	jobs, err := h.service.SearchJobs(c.UserContext(), req)
	if err != nil {
		return err
	}

	return httpx.Page(c, jobs)
}

// GetJobBySlug retrieves a job page
// GET /api/jobs/slug/:slug
func (h *Handlers) GetJobBySlug(c *fiber.Ctx) error {
	details, err := h.service.GetJobBySlug(c.UserContext(), c.Params("slug"), auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.OK(c, details)
}

// GetJobDetails retrieves a job by ID
// GET /api/jobs/:id
func (h *Handlers) GetJobDetails(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	details, err := h.service.GetJobDetails(c.UserContext(), jobID, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.OK(c, details)
}

// GetCompanyJobs lists the jobs of one company
// GET /api/companies/:id/jobs?status&page&limit
func (h *Handlers) GetCompanyJobs(c *fiber.Ctx) error {
	companyID := kernel.CompanyID(c.Params("id"))

	var req job.CompanyJobsRequest
	if err := c.QueryParser(&req); err != nil {
		return validatex.Field("query", err.Error())
	}

	jobs, err := h.service.GetCompanyJobs(c.UserContext(), companyID, req, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	return httpx.Page(c, jobs)
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/jobs")

	// Static segments before /:id
	api.Get("/", handlers.ListJobs)
	api.Get("/search", handlers.SearchJobs)
	api.Get("/slug/:slug", authMiddleware.Optional(), handlers.GetJobBySlug)
	api.Get("/:id", authMiddleware.Optional(), handlers.GetJobDetails)

	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CreateJob,
	)
	api.Patch("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.UpdateJob,
	)
	api.Delete("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsDelete),
		handlers.DeleteJob,
	)

	app.Get("/api/companies/:id/jobs", authMiddleware.Optional(), handlers.GetCompanyJobs)
}
