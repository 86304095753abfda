package system

import (
	"opscrm/internal/common/api"
	"opscrm/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	mongodb *database.MongodbDB
}

func NewHealthApi(mongodb *database.MongodbDB) api.Route {
	return &HealthApi{mongodb: mongodb}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.health)
}

func (h *HealthApi) health(c *fiber.Ctx) error {
	if err := h.mongodb.Client.Ping(c.Context(), nil); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "database unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
