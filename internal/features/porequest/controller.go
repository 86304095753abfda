package porequest

import (
	"errors"

	"opscrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type PORequestController struct {
	service PORequestService
}

func NewPORequestController(service PORequestService) *PORequestController {
	return &PORequestController{service: service}
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

func (c *PORequestController) ListRequests(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 50))
	if page < 1 {
		page = 1
	}

	filter := map[string]interface{}{}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}

	requests, total, err := c.service.ListRequests(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch PO requests"})
	}

	return ctx.JSON(fiber.Map{
		"data":  requests,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *PORequestController) GetRequest(ctx *fiber.Ctx) error {
	request, err := c.service.GetRequestByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PO request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch PO request"})
	}
	return ctx.JSON(request)
}

func (c *PORequestController) CreateRequest(ctx *fiber.Ctx) error {
	var request PORequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateRequest(ctx.UserContext(), &request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(request)
}

func (c *PORequestController) UpdateRequest(ctx *fiber.Ctx) error {
	var request PORequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateRequest(ctx.UserContext(), ctx.Params("id"), &request); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PO request not found"})
		case errors.Is(err, models.ErrAlreadyDecided):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "PO request already decided"})
		default:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *PORequestController) DecideRequest(ctx *fiber.Ctx) error {
	var req decisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	decided, err := c.service.Decide(ctx.UserContext(), ctx.Params("id"), req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PO request not found"})
		case errors.Is(err, models.ErrAlreadyDecided):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "PO request already decided"})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to decide PO request"})
		}
	}

	return ctx.JSON(decided)
}

func (c *PORequestController) DeleteRequest(ctx *fiber.Ctx) error {
	if err := c.service.DeleteRequest(ctx.UserContext(), ctx.Params("id")); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PO request not found"})
		case errors.Is(err, models.ErrAlreadyDecided):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "PO request already decided"})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete PO request"})
		}
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
