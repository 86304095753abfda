package customer

import (
	"errors"

	"opscrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type CustomerController struct {
	service CustomerService
}

func NewCustomerController(service CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

func (c *CustomerController) ListCustomers(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 50))
	if page < 1 {
		page = 1
	}

	filter := map[string]interface{}{}
	if ownerID := ctx.Query("owner_id"); ownerID != "" {
		filter["owner_id"] = ownerID
	}

	customers, total, err := c.service.ListCustomers(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch customers"})
	}

	return ctx.JSON(fiber.Map{
		"data":  customers,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *CustomerController) GetCustomer(ctx *fiber.Ctx) error {
	customer, err := c.service.GetCustomerByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch customer"})
	}
	return ctx.JSON(customer)
}

func (c *CustomerController) CreateCustomer(ctx *fiber.Ctx) error {
	var customer Customer
	if err := ctx.BodyParser(&customer); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateCustomer(ctx.UserContext(), &customer); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(customer)
}

func (c *CustomerController) UpdateCustomer(ctx *fiber.Ctx) error {
	var customer Customer
	if err := ctx.BodyParser(&customer); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateCustomer(ctx.UserContext(), ctx.Params("id"), &customer); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *CustomerController) DeleteCustomer(ctx *fiber.Ctx) error {
	if err := c.service.DeleteCustomer(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete customer"})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
