package handlers

import (
	"github.com/gofiber/fiber/v3"

	"taskkeeper/internal/taskkeeper/adapters/http/dto"
	"taskkeeper/internal/taskkeeper/adapters/http/middleware"
)

// GetMe возвращает профиль текущего пользователя.
func (h *Handler) GetMe(c fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}

	user, ok := h.facade.GetUser(userID)
	if !ok {
		return fail(c, fiber.StatusNotFound, ErrorUserNotFound)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// DeleteMe удаляет текущего пользователя вместе с его назначениями и членством.
func (h *Handler) DeleteMe(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}

	removed, err := h.facade.RemoveUser(requestCtx, userID)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if !removed {
		return fail(c, fiber.StatusNotFound, ErrorUserNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserByUsername ищет пользователя по имени.
func (h *Handler) GetUserByUsername(c fiber.Ctx) error {
	user, ok := h.facade.FindUserByUsername(c.Params("username"))
	if !ok {
		return fail(c, fiber.StatusNotFound, ErrorUserNotFound)
	}
	return c.JSON(dto.NewUserResponse(user))
}
