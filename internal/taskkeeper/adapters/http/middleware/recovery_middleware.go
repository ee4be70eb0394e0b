package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskkeeper/pkg/logger"
)

const (
	logServerPanic       = "server panic"
	logPanicResponseFail = "failed to send error response after panic"
	errInternal          = "internal server error"
)

// NewRecoveryMiddleware создает новое промежуточное ПО для восстановления после паники.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		requestCtx := RequestContext(c)
		log := logger.Log(requestCtx)

		defer func() {
			if r := recover(); r != nil {
				log.Error(requestCtx, logServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": errInternal,
				})
				if err != nil {
					log.Error(requestCtx, logPanicResponseFail, zap.Error(err))
				}
			}
		}()

		return c.Next()
	}
}
