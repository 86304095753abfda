package role

import (
	"errors"

	"opscrm/internal/common/models"
	"opscrm/internal/features/permission"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{service: service}
}

type roleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (c *RoleController) ListRoles(ctx *fiber.Ctx) error {
	roles, err := c.service.ListRoles(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch roles"})
	}
	return ctx.JSON(fiber.Map{"data": roles})
}

func (c *RoleController) GetRole(ctx *fiber.Ctx) error {
	role, err := c.service.GetRoleByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch role"})
	}
	return ctx.JSON(role)
}

func (c *RoleController) CreateRole(ctx *fiber.Ctx) error {
	var req roleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	role := &Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}

	created, err := c.service.CreateRole(ctx.UserContext(), role)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(created)
}

func (c *RoleController) UpdateRole(ctx *fiber.Ctx) error {
	var req roleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	role := &Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}

	if err := c.service.UpdateRole(ctx.UserContext(), ctx.Params("id"), role); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *RoleController) DeleteRole(ctx *fiber.Ctx) error {
	if err := c.service.DeleteRole(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// ListPermissionCatalog backs the role editor: the closed set of keys a
// role may be granted.
func (c *RoleController) ListPermissionCatalog(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"data": permission.Catalog()})
}
