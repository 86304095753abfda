package task

import (
	"errors"

	"opscrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	service TaskService
}

func NewTaskController(service TaskService) *TaskController {
	return &TaskController{service: service}
}

func (c *TaskController) ListTasks(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 50))
	if page < 1 {
		page = 1
	}

	filter := map[string]interface{}{}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}
	if assignee := ctx.Query("assignee"); assignee != "" {
		filter["assignees"] = assignee
	}

	tasks, total, err := c.service.ListTasks(ctx.UserContext(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}

	return ctx.JSON(fiber.Map{
		"data":  tasks,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	task, err := c.service.GetTaskByID(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch task"})
	}
	return ctx.JSON(task)
}

func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var task Task
	if err := ctx.BodyParser(&task); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateTask(ctx.UserContext(), &task); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(task)
}

func (c *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	var task Task
	if err := ctx.BodyParser(&task); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateTask(ctx.UserContext(), ctx.Params("id"), &task); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		case errors.Is(err, models.ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		default:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	if err := c.service.DeleteTask(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
