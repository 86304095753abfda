package customer

import (
	"opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/features/permission"
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CustomerApi struct {
	controller *CustomerController
	config     *config.Config
	identity   middleware.IdentityResolver
}

func NewCustomerApi(controller *CustomerController, cfg *config.Config, identity middleware.IdentityResolver) api.Route {
	return &CustomerApi{
		controller: controller,
		config:     cfg,
		identity:   identity,
	}
}

func (h *CustomerApi) Setup(app *fiber.App) {
	customers := app.Group("/api/customers", middleware.Authenticated(h.config.SkipAuth, h.identity))

	customers.Get("/", middleware.RequirePermission(permission.KeyCustomersView), h.controller.ListCustomers)
	customers.Get("/:id", middleware.RequirePermission(permission.KeyCustomersView), h.controller.GetCustomer)
	customers.Post("/", middleware.RequirePermission(permission.KeyCustomersCreate), h.controller.CreateCustomer)
	customers.Put("/:id", middleware.RequirePermission(permission.KeyCustomersEdit), h.controller.UpdateCustomer)
	customers.Delete("/:id", middleware.RequirePermission(permission.KeyCustomersDelete), h.controller.DeleteCustomer)
}
