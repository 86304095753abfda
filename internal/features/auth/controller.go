package auth

import (
	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	SessionService SessionService
}

func NewAuthController(sessionService SessionService) *AuthController {
	return &AuthController{
		SessionService: sessionService,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	token, authed, err := ctrl.SessionService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  authed,
	})
}

// Me returns the resolved identity of the calling session, permissions
// included. The UI reads this to decide what to render.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.JSON(user)
}
