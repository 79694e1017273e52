package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tasklist-api/internal/service"
	"tasklist-api/pkg/logger"
)

type UserHandler struct {
	users *service.UserService
	log   *logger.Loggers
}

func NewUserHandler(users *service.UserService, log *logger.Loggers) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Me returns the profile of the authenticated user.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.users.Profile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toUserResponse(user))
}
