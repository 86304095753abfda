package activity

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActivityApi struct {
	controller *ActivityController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewActivityApi(controller *ActivityController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &ActivityApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *ActivityApi) Setup(app *fiber.App) {
	group := app.Group("/api/activities", middleware.Authenticated(h.config.SkipAuth, h.identity))

	group.Get("/:entityType/:entityId", h.controller.ListByEntity)
}
