package project

import (
	"errors"

	"opscrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type ProjectController struct {
	service ProjectService
}

func NewProjectController(service ProjectService) *ProjectController {
	return &ProjectController{service: service}
}

func (c *ProjectController) ListProjects(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 50))
	if page < 1 {
		page = 1
	}

	filter := map[string]interface{}{}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}

	projects, total, err := c.service.ListProjects(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch projects"})
	}

	return ctx.JSON(fiber.Map{
		"data":  projects,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *ProjectController) GetProject(ctx *fiber.Ctx) error {
	project, err := c.service.GetProjectByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch project"})
	}
	return ctx.JSON(project)
}

func (c *ProjectController) CreateProject(ctx *fiber.Ctx) error {
	var project Project
	if err := ctx.BodyParser(&project); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateProject(ctx.UserContext(), &project); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(project)
}

func (c *ProjectController) UpdateProject(ctx *fiber.Ctx) error {
	var project Project
	if err := ctx.BodyParser(&project); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateProject(ctx.UserContext(), ctx.Params("id"), &project); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *ProjectController) DeleteProject(ctx *fiber.Ctx) error {
	if err := c.service.DeleteProject(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete project"})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
