package role

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewRoleApi(controller *RoleController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &RoleApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.Authenticated(h.config.SkipAuth, h.identity))

	manage := middleware.RequirePermission(permission.KeyAdmin, permission.KeyRolesManage)

	roles.Get("/permissions", manage, h.controller.ListPermissionCatalog)
	roles.Get("/", manage, h.controller.ListRoles)
	roles.Post("/", manage, h.controller.CreateRole)
	roles.Get("/:id", manage, h.controller.GetRole)
	roles.Put("/:id", manage, h.controller.UpdateRole)
	roles.Delete("/:id", manage, h.controller.DeleteRole)
}
