// Package handlers содержит HTTP обработчики API задач, групп и пользователей.
package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/adapters/http/dto"
	"taskkeeper/internal/taskkeeper/adapters/http/middleware"
	"taskkeeper/internal/taskkeeper/adapters/jsonstore"
	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/pkg/logger"
)

// Тексты ошибок API.
const (
	ErrorInvalidRequest     = "invalid request"
	ErrorInvalidID          = "invalid id"
	ErrorInvalidCredentials = "invalid username or password"
	ErrorUserNotFound       = "user not found"
	ErrorTaskNotFound       = "task not found"
	ErrorGroupNotFound      = "group not found"
	ErrorNotGroupAdmin      = "only group admins may do this"
	ErrorNotAssignee        = "only task assignees may do this"
	ErrorTaskClosed         = "closed tasks cannot be reopened"
	ErrorUnauthenticated    = "authentication required"
	ErrorStorage            = "storage failure"
	ErrorInternal           = "internal server error"
)

const logFailedToServeRequest = "failed to serve request"

// Ошибки проверок, выполняемых внутри изменения задачи.
var (
	errNotAssignee = errors.New(ErrorNotAssignee)
	errTaskClosed  = errors.New(ErrorTaskClosed)
)

// writeError отображает ошибку фасада в HTTP статус.
func writeError(ctx context.Context, c fiber.Ctx, err error) error {
	status, msg := fiber.StatusInternalServerError, ErrorInternal
	switch {
	case errors.Is(err, errNotAssignee):
		status, msg = fiber.StatusForbidden, ErrorNotAssignee
	case errors.Is(err, errTaskClosed):
		status, msg = fiber.StatusConflict, ErrorTaskClosed
	case errors.Is(err, entities.ErrUsernameTaken), errors.Is(err, jsonstore.ErrDuplicateID):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, entities.ErrInvalidArgument):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, jsonstore.ErrPersistence):
		msg = ErrorStorage
	}

	log := logger.Log(ctx)
	if status >= fiber.StatusInternalServerError {
		log.Error(ctx, logFailedToServeRequest, zap.Error(err))
	} else {
		log.Debug(ctx, logFailedToServeRequest, zap.Error(err))
	}
	return fail(c, status, msg)
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

func paramID(c fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func currentUser(c fiber.Ctx) (uuid.UUID, bool) {
	return middleware.UserID(c)
}
