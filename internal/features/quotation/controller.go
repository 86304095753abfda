package quotation

import (
	"errors"

	"opscrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type QuotationController struct {
	service QuotationService
}

func NewQuotationController(service QuotationService) *QuotationController {
	return &QuotationController{service: service}
}

func (c *QuotationController) ListQuotations(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 50))
	if page < 1 {
		page = 1
	}

	filter := map[string]interface{}{}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}

	quotations, total, err := c.service.ListQuotations(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quotations"})
	}

	return ctx.JSON(fiber.Map{
		"data":  quotations,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *QuotationController) GetQuotation(ctx *fiber.Ctx) error {
	quotation, err := c.service.GetQuotationByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quotation"})
	}
	return ctx.JSON(quotation)
}

func (c *QuotationController) CreateQuotation(ctx *fiber.Ctx) error {
	var quotation Quotation
	if err := ctx.BodyParser(&quotation); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateQuotation(ctx.UserContext(), &quotation); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(quotation)
}

func (c *QuotationController) UpdateQuotation(ctx *fiber.Ctx) error {
	var quotation Quotation
	if err := ctx.BodyParser(&quotation); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateQuotation(ctx.UserContext(), ctx.Params("id"), &quotation); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *QuotationController) DeleteQuotation(ctx *fiber.Ctx) error {
	if err := c.service.DeleteQuotation(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quotation"})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
