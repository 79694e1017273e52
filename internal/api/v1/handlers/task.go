package handlers

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tasklist-api/internal/apperr"
	"tasklist-api/internal/models"
	"tasklist-api/internal/service"
	"tasklist-api/pkg/logger"
)

// TaskResponse is the external shape of a task. The stored Done flag is
// exposed as "completed".
type TaskResponse struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	AuthorID  int    `json:"authorId"`
}

func toTaskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Done,
		AuthorID:  t.AuthorID,
	}
}

// CreateTaskRequest has no owner field; the owner is always the caller.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (r UpdateTaskRequest) toPatch() models.TaskPatch {
	return models.TaskPatch{Title: r.Title, Done: r.Completed}
}

var errInvalidTaskID = apperr.Invalid("invalid task id")

// TaskHandler serves the task endpoints. Every call is scoped to the user
// stored by the auth gate.
type TaskHandler struct {
	tasks    *service.TaskService
	validate *validator.Validate
	log      *logger.Loggers
}

func NewTaskHandler(tasks *service.TaskService, validate *validator.Validate, log *logger.Loggers) *TaskHandler {
	return &TaskHandler{tasks: tasks, validate: validate, log: log}
}

func taskID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 || id > math.MaxInt32 {
		return 0, errInvalidTaskID
	}
	return id, nil
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	tasks, err := h.tasks.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	res := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, toTaskResponse(t))
	}
	return c.JSON(res)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req CreateTaskRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	task, err := h.tasks.Create(c.UserContext(), userID, req.Title)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(task))
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := taskID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	task, err := h.tasks.Get(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toTaskResponse(task))
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := taskID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req UpdateTaskRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	task, err := h.tasks.Update(c.UserContext(), userID, id, req.toPatch())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toTaskResponse(task))
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := taskID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.tasks.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(MessageResponse{Message: "Task deleted successfully"})
}
