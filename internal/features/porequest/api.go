package porequest

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PORequestApi struct {
	controller *PORequestController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewPORequestApi(controller *PORequestController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &PORequestApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *PORequestApi) Setup(app *fiber.App) {
	requests := app.Group("/api/porequests", middleware.Authenticated(h.config.SkipAuth, h.identity))

	requests.Get("/", middleware.RequirePermission(permission.KeyPORequestsView), h.controller.ListRequests)
	requests.Get("/:id", middleware.RequirePermission(permission.KeyPORequestsView), h.controller.GetRequest)
	requests.Post("/", middleware.RequirePermission(permission.KeyPORequestsCreate), h.controller.CreateRequest)
	requests.Put("/:id", middleware.RequirePermission(permission.KeyPORequestsEdit), h.controller.UpdateRequest)
	requests.Post("/:id/decide", middleware.RequirePermission(permission.KeyPORequestsApprove), h.controller.DecideRequest)
	requests.Delete("/:id", middleware.RequirePermission(permission.KeyPORequestsEdit), h.controller.DeleteRequest)
}
