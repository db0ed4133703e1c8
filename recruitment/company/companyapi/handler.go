package companyapi

import (
	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/company/companysrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for company lookups
type Handlers struct {
	service *companysrv.CompanyService
}

// NewHandlers creates a new company handlers instance
func NewHandlers(service *companysrv.CompanyService) *Handlers {
	return &Handlers{service: service}
}

// GetCompany retrieves a company by ID
// GET /api/companies/:id
func (h *Handlers) GetCompany(c *fiber.Ctx) error {
	co, err := h.service.GetCompany(c.UserContext(), kernel.CompanyID(c.Params("id")))
	if err != nil {
		return err
	}
	return httpx.OK(c, co)
}

// GetCompanyBySlug retrieves a company by slug
// GET /api/companies/slug/:slug
func (h *Handlers) GetCompanyBySlug(c *fiber.Ctx) error {
	co, err := h.service.GetCompanyBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return httpx.OK(c, co)
}

// RegisterRoutes registers the public company routes.
// /api/companies/:id/jobs is served by the job module.
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/api/companies")

	api.Get("/slug/:slug", handlers.GetCompanyBySlug)
	api.Get("/:id", handlers.GetCompany)
}
