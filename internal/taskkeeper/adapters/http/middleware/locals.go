// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Ключи fiber.Locals.
const (
	LocalsRequestContext = "requestContext"
	LocalsUserID         = "userID"
)

// RequestContext возвращает контекст запроса с логгером и request id.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalsRequestContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}

// UserID возвращает ID пользователя, проверенный NewAuthMiddleware.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalsUserID).(uuid.UUID)
	return id, ok
}
