package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/somema/somema-api/internal/service"
)

type UserHandler struct {
	s service.ProfileService
}

func NewUserHandler(service service.ProfileService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)

	profile, err := h.s.GetProfile(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(profile)
}
