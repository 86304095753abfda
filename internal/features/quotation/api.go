package quotation

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type QuotationApi struct {
	controller *QuotationController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewQuotationApi(controller *QuotationController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &QuotationApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *QuotationApi) Setup(app *fiber.App) {
	quotations := app.Group("/api/quotations", middleware.Authenticated(h.config.SkipAuth, h.identity))

	quotations.Get("/", middleware.RequirePermission(permission.KeyQuotationsView), h.controller.ListQuotations)
	quotations.Get("/:id", middleware.RequirePermission(permission.KeyQuotationsView), h.controller.GetQuotation)
	quotations.Post("/", middleware.RequirePermission(permission.KeyQuotationsCreate), h.controller.CreateQuotation)
	quotations.Put("/:id", middleware.RequirePermission(permission.KeyQuotationsEdit), h.controller.UpdateQuotation)
	quotations.Delete("/:id", middleware.RequirePermission(permission.KeyQuotationsDelete), h.controller.DeleteQuotation)
}
