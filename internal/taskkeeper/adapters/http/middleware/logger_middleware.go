package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskkeeper/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

const (
	logRequestStarted   = "request started"
	logRequestCompleted = "request completed"
	logRequestFailed    = "request failed"
)

// NewLoggerMiddleware создает промежуточное ПО, которое присваивает запросу request id
// и логирует начало и завершение запроса.
func NewLoggerMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestCtx := logger.NewRequestIDContext(c.Context(), c.Get(HeaderRequestID))
		requestID, _ := logger.GetRequestID(requestCtx)
		c.Locals(LocalsRequestContext, requestCtx)
		c.Set(HeaderRequestID, requestID)

		log := logger.Log(requestCtx).With(
			zap.String("path", c.Path()),
			zap.String("http_method", c.Method()),
			zap.String("ip", c.IP()),
		)
		log.Debug(requestCtx, logRequestStarted)

		err := c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			log.Error(requestCtx, logRequestFailed, append(fields, zap.Error(err))...)
			return err
		}

		log.Info(requestCtx, logRequestCompleted, fields...)
		return nil
	}
}
