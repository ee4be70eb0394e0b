package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/internal/taskkeeper/ports/services"
	"taskkeeper/pkg/logger"
)

const (
	bearerPrefix = "Bearer "

	logAuthMiddleware = "auth middleware"
	logTokenRejected  = "access token rejected"
	logUnknownUser    = "access token for deleted user"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired access token"
	ErrorUnknownUser        = "user no longer exists"
)

// UserLookup ищет пользователя по ID.
type UserLookup interface {
	GetUser(userID uuid.UUID) (*entities.User, bool)
}

// NewAuthMiddleware проверяет bearer-токен и существование его владельца
// и кладет ID пользователя в Locals.
func NewAuthMiddleware(tokens services.TokenService, users UserLookup) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, logAuthMiddleware)

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(c, ErrorNoAuthHeader)
		}

		token, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok || token == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(c, ErrorInvalidTokenFormat)
		}

		userID, err := tokens.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, logTokenRejected, zap.Error(err))
			return unauthorized(c, ErrorInvalidToken)
		}
		if _, ok := users.GetUser(userID); !ok {
			log.Debug(requestCtx, logUnknownUser, zap.String("userID", userID.String()))
			return unauthorized(c, ErrorUnknownUser)
		}

		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
