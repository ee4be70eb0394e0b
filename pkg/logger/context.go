package logger

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// global задается в main после загрузки конфигурации.
var global atomic.Pointer[Logger]

// fallback пишет только предупреждения и ошибки, пока global не задан.
var fallback = sync.OnceValue(func() *Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zapLogger, err := config.Build()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return &Logger{l: zapLogger.With(zap.String("logger", "fallback"))}
})

// NewContext возвращает контекст, несущий logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// SetGlobalLogger заменяет глобальный logger; nil возвращает резервный.
func SetGlobalLogger(logger *Logger) {
	global.Store(logger)
}

// Log возвращает logger из контекста, иначе глобальный, иначе резервный.
func Log(ctx context.Context) *Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
			return logger
		}
	}
	if logger := global.Load(); logger != nil {
		return logger
	}
	return fallback()
}
