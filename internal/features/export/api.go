package export

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	controller *ExportController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewExportApi(controller *ExportController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &ExportApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *ExportApi) Setup(app *fiber.App) {
	exports := app.Group("/api/export",
		middleware.Authenticated(h.config.SkipAuth, h.identity),
		middleware.RequirePermission(permission.KeyReportsExport))

	exports.Get("/leads", h.controller.ExportLeads)
	exports.Get("/customers", h.controller.ExportCustomers)
}
