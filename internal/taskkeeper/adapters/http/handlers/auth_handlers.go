package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/adapters/http/dto"
	"taskkeeper/internal/taskkeeper/adapters/http/middleware"
	"taskkeeper/pkg/logger"
)

const (
	logHandlerRegister = "auth handler: register"
	logHandlerLogin    = "auth handler: login"
	logLoginRejected   = "login rejected"
)

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerRegister)

	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	user, err := h.facade.RegisterUser(requestCtx, req.Username, req.Password)
	if err != nil {
		return writeError(requestCtx, c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login проверяет учетные данные и выдает токен доступа.
func (h *Handler) Login(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerLogin)

	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	user, ok, err := h.facade.Authenticate(requestCtx, req.Username, req.Password)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if !ok {
		log.Info(requestCtx, logLoginRejected, zap.String("username", req.Username))
		return fail(c, fiber.StatusUnauthorized, ErrorInvalidCredentials)
	}

	token, err := h.tokens.GenerateAccessToken(requestCtx, user.ID(), user.Username())
	if err != nil {
		return writeError(requestCtx, c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.LoginResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		User:        dto.NewUserResponse(user),
	})
}
