package lead

import (
	"errors"

	"opscrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	service LeadService
}

func NewLeadController(service LeadService) *LeadController {
	return &LeadController{service: service}
}

func (c *LeadController) ListLeads(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 50))
	if page < 1 {
		page = 1
	}

	filter := map[string]interface{}{}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}
	if ownerID := ctx.Query("owner_id"); ownerID != "" {
		filter["owner_id"] = ownerID
	}

	leads, total, err := c.service.ListLeads(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leads"})
	}

	return ctx.JSON(fiber.Map{
		"data":  leads,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *LeadController) GetLead(ctx *fiber.Ctx) error {
	lead, err := c.service.GetLeadByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch lead"})
	}
	return ctx.JSON(lead)
}

func (c *LeadController) CreateLead(ctx *fiber.Ctx) error {
	var lead Lead
	if err := ctx.BodyParser(&lead); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateLead(ctx.UserContext(), &lead); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(lead)
}

func (c *LeadController) UpdateLead(ctx *fiber.Ctx) error {
	var lead Lead
	if err := ctx.BodyParser(&lead); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateLead(ctx.UserContext(), ctx.Params("id"), &lead); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *LeadController) DeleteLead(ctx *fiber.Ctx) error {
	if err := c.service.DeleteLead(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete lead"})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// ConvertLead is idempotent: a second call returns the customer the
// first call produced, with a 200 instead of a 201.
func (c *LeadController) ConvertLead(ctx *fiber.Ctx) error {
	converted, err := c.service.ConvertToCustomer(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to convert lead"})
	}
	return ctx.JSON(converted)
}
