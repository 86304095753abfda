package lead

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewLeadApi(controller *LeadController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &LeadApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *LeadApi) Setup(app *fiber.App) {
	leads := app.Group("/api/leads", middleware.Authenticated(h.config.SkipAuth, h.identity))

	leads.Get("/", middleware.RequirePermission(permission.KeyLeadsView), h.controller.ListLeads)
	leads.Get("/:id", middleware.RequirePermission(permission.KeyLeadsView), h.controller.GetLead)
	leads.Post("/", middleware.RequirePermission(permission.KeyLeadsCreate), h.controller.CreateLead)
	leads.Put("/:id", middleware.RequirePermission(permission.KeyLeadsEdit), h.controller.UpdateLead)
	leads.Delete("/:id", middleware.RequirePermission(permission.KeyLeadsDelete), h.controller.DeleteLead)
	leads.Post("/:id/convert", middleware.RequirePermission(permission.KeyLeadsConvert), h.controller.ConvertLead)
}
