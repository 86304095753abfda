package notification

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	hub        *Hub
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewNotificationApi(controller *NotificationController, hub *Hub, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &NotificationApi{
		controller: controller,
		hub:        hub,
		config:     cfg,
		identity:   identity,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.Authenticated(h.config.SkipAuth, h.identity))

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	group.Put("/:id/read", h.controller.MarkAsRead)
	group.Post("/mark-all-read", h.controller.MarkAllAsRead)
	group.Post("/push-token", h.controller.RegisterPushToken)

	group.Get("/ws", websocket.New(h.hub.Serve))
}
