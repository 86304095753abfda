package auth

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewAuthApi(controller *AuthController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &AuthApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *AuthApi) Setup(app *fiber.App) {
	app.Post("/api/login", h.controller.Login)
	app.Get("/api/me", middleware.Authenticated(h.config.SkipAuth, h.identity), h.controller.Me)
}
