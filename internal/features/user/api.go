package user

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewUserApi(controller *UserController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &UserApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.Authenticated(h.config.SkipAuth, h.identity))

	view := middleware.RequirePermission(permission.KeyUsersView, permission.KeyUsersManage)
	manage := middleware.RequirePermission(permission.KeyUsersManage)

	users.Get("/", view, h.controller.ListUsers)
	users.Get("/:id", view, h.controller.GetUser)
	users.Post("/", manage, h.controller.CreateUser)
	users.Put("/:id", manage, h.controller.UpdateUser)
	users.Delete("/:id", manage, h.controller.DeleteUser)
}
