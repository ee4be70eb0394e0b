// Package shutdown ожидает SIGINT/SIGTERM и выполняет хуки завершения.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskkeeper/pkg/logger"
)

const (
	msgSignalReceived  = "shutdown signal received"
	msgContextDone     = "parent context done, shutting down"
	msgHookFailed      = "shutdown hook failed"
	msgShutdownTimeout = "shutdown timed out"
	msgServeFailed     = "serving failed"
)

// Hook - шаг завершения работы.
type Hook func(ctx context.Context) error

// Wait блокируется до сигнала SIGINT/SIGTERM или отмены ctx, затем
// последовательно выполняет hooks в переданном порядке в пределах timeout.
// Порядок важен: сначала останавливается прием запросов, затем сбрасываются хранилища.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	log := logger.Log(ctx)

	select {
	case sig := <-sigCh:
		log.Info(ctx, msgSignalReceived, zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info(ctx, msgContextDone)
	}

	return Run(context.WithoutCancel(ctx), timeout, hooks...)
}

// Run выполняет hooks последовательно, ограничивая общее время timeout.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := logger.Log(ctx)
	done := make(chan error, 1)

	go func() {
		var errs []error
		for i, hook := range hooks {
			if err := hook(ctx); err != nil {
				log.Error(ctx, msgHookFailed, zap.Int("hook", i), zap.Error(err))
				errs = append(errs, err)
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.Warn(ctx, msgShutdownTimeout, zap.Duration("timeout", timeout))
		return fmt.Errorf("%s: %w", msgShutdownTimeout, ctx.Err())
	}
}

// Serve запускает serve в отдельной горутине и ждет завершения через Wait.
// Если serve завершается с ошибкой раньше сигнала, ожидание прерывается, хуки
// выполняются, а ошибка serve возвращается вместе с ошибками хуков.
func Serve(ctx context.Context, timeout time.Duration, serve func() error, hooks ...Hook) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		if err := serve(); err != nil {
			logger.Log(ctx).Error(ctx, msgServeFailed, zap.Error(err))
			serveErr <- err
			cancel()
		}
	}()

	err := Wait(waitCtx, timeout, hooks...)
	select {
	case failure := <-serveErr:
		return errors.Join(fmt.Errorf("%s: %w", msgServeFailed, failure), err)
	default:
		return err
	}
}
