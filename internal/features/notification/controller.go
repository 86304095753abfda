package notification

import (
	"strconv"
	"time"

	"opscrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationController struct {
	repo     NotificationRepository
	pushRepo PushTokenRepository
	logger   *zap.Logger
}

func NewNotificationController(repo NotificationRepository, pushRepo PushTokenRepository, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		repo:     repo,
		pushRepo: pushRepo,
		logger:   logger,
	}
}

func (c *NotificationController) List(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	notifications, err := c.repo.ListRecent(ctx.UserContext(), user.ID, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return ctx.JSON(fiber.Map{"data": notifications})
}

func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	count, err := c.repo.UnreadCount(ctx.UserContext(), user.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count notifications"})
	}

	return ctx.JSON(fiber.Map{"count": count})
}

func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	if err := c.repo.MarkRead(ctx.UserContext(), ctx.Params("id"), user.ID); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to mark notification read"})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	if err := c.repo.MarkAllRead(ctx.UserContext(), user.ID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

type registerPushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterPushToken attaches a browser push token to the current user.
// Best effort: a failure is reported to the client but has no bearing on
// the feed itself.
func (c *NotificationController) RegisterPushToken(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	var req registerPushTokenRequest
	if err := ctx.BodyParser(&req); err != nil || req.Token == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token required"})
	}

	token := &PushToken{
		ID:         primitive.NewObjectID(),
		UserID:     user.ID,
		Token:      req.Token,
		Platform:   req.Platform,
		LastSeenAt: time.Now(),
	}

	if err := c.pushRepo.Upsert(ctx.UserContext(), token); err != nil {
		c.logger.Warn("push token registration failed", zap.String("user_id", user.ID), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register push token"})
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}
