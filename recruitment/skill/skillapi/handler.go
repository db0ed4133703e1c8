package skillapi

import (
	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/skill"
	"github.com/Abraxas-365/vieclam/recruitment/skill/skillsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for the skill catalogue
type Handlers struct {
	service *skillsrv.SkillService
}

// NewHandlers creates a new skill handlers instance
func NewHandlers(service *skillsrv.SkillService) *Handlers {
	return &Handlers{service: service}
}

// ListSkills lists the catalogue
// GET /api/skills?category&q
func (h *Handlers) ListSkills(c *fiber.Ctx) error {
	var filter skill.ListFilter
	if err := c.QueryParser(&filter); err != nil {
		return validatex.Field("query", err.Error())
	}

	skills, err := h.service.ListSkills(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return httpx.OK(c, skills)
}

// CreateSkill adds a skill
// POST /api/skills
func (h *Handlers) CreateSkill(c *fiber.Ctx) error {
	var req skill.CreateSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return validatex.Field("body", err.Error())
	}

	sk, err := h.service.CreateSkill(c.UserContext(), req, auth.ActorFrom(c))
	if err != nil {
		return err
	}
	return httpx.Created(c, sk)
}

// RegisterRoutes registers all skill routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/skills")

	api.Get("/", handlers.ListSkills)
	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeSkillsWrite),
		handlers.CreateSkill,
	)
}
