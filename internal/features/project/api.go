package project

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProjectApi struct {
	controller *ProjectController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewProjectApi(controller *ProjectController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &ProjectApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *ProjectApi) Setup(app *fiber.App) {
	projects := app.Group("/api/projects", middleware.Authenticated(h.config.SkipAuth, h.identity))

	projects.Get("/", middleware.RequirePermission(permission.KeyProjectsView), h.controller.ListProjects)
	projects.Get("/:id", middleware.RequirePermission(permission.KeyProjectsView), h.controller.GetProject)
	projects.Post("/", middleware.RequirePermission(permission.KeyProjectsCreate), h.controller.CreateProject)
	projects.Put("/:id", middleware.RequirePermission(permission.KeyProjectsEdit), h.controller.UpdateProject)
	projects.Delete("/:id", middleware.RequirePermission(permission.KeyProjectsDelete), h.controller.DeleteProject)
}
