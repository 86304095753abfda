package activity

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ActivityController struct {
	service ActivityService
}

func NewActivityController(service ActivityService) *ActivityController {
	return &ActivityController{service: service}
}

func (c *ActivityController) ListByEntity(ctx *fiber.Ctx) error {
	entityType := ctx.Params("entityType")
	entityID := ctx.Params("entityId")
	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)

	entries, err := c.service.ListByEntity(ctx.UserContext(), entityType, entityID, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch activity"})
	}

	return ctx.JSON(fiber.Map{"data": entries})
}
