package export

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{service: service}
}

func (c *ExportController) ExportLeads(ctx *fiber.Ctx) error {
	data, filename, err := c.service.ExportLeads(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export leads"})
	}
	return sendWorkbook(ctx, data, filename)
}

func (c *ExportController) ExportCustomers(ctx *fiber.Ctx) error {
	data, filename, err := c.service.ExportCustomers(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export customers"})
	}
	return sendWorkbook(ctx, data, filename)
}

func sendWorkbook(ctx *fiber.Ctx, data []byte, filename string) error {
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(data)
}
