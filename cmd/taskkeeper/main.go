package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httpServer "taskkeeper/internal/taskkeeper/adapters/http"
	"taskkeeper/internal/taskkeeper/adapters/services"
	"taskkeeper/internal/taskkeeper/config"
	"taskkeeper/pkg/logger"
	"taskkeeper/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "TASKKEEPER_LOGGER_MODE"
	EnvLoggerLevel = "TASKKEEPER_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrParseFlags           = "failed to parse flags"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitServices         = "failed to initialize password and token services"
	ErrInitStorage          = "failed to initialize storage"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "taskkeeper service started"
	LogServiceShutdownDone = "taskkeeper service shutdown complete"
	LogInitStorage         = "initializing storage"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogFlushingStorage     = "flushing storage"
)

// flags - параметры командной строки; непустые значения перекрывают конфигурацию.
type flags struct {
	configPath  string
	storageRoot string
	storageEnv  string
}

func parseFlags(args []string) (*flags, error) {
	var f flags
	flagSet := pflag.NewFlagSet(config.ServiceName, pflag.ContinueOnError)
	flagSet.StringVarP(&f.configPath, "config", "c", "config.yaml", "path to the YAML configuration file")
	flagSet.StringVar(&f.storageRoot, "storage-root", "", "directory holding the data tree")
	flagSet.StringVar(&f.storageEnv, "storage-env", "", "storage environment: production or test")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return &f, nil
}

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		f, err := parseFlags(os.Args[1:])
		if err != nil {
			if !errors.Is(err, pflag.ErrHelp) {
				log.Error(ctx, ErrParseFlags, zap.Error(err))
				exitCode = 2
			}
			return
		}

		cfg, err := config.Load(ctx, f.configPath)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}
		if f.storageRoot != "" {
			cfg.Storage.Root = f.storageRoot
		}
		if f.storageEnv != "" {
			cfg.Storage.Env = f.storageEnv
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitServices)
		serviceFactory, err := services.NewServiceFactory(&cfg.JWT)
		if err != nil {
			log.Error(ctx, ErrInitServices, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitStorage,
			zap.String("root", cfg.Storage.Root),
			zap.String("env", cfg.Storage.Env))
		facade, err := newFacade(ctx, &cfg.Storage, serviceFactory)
		if err != nil {
			log.Error(ctx, ErrInitStorage, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitHTTPServer)
		server := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpServer.SetupRouter(server, facade, serviceFactory.TokenService())

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))

		// Ошибка Listen (например, занятый порт) завершает процесс без ожидания сигнала.
		err = shutdown.Serve(ctx, cfg.Shutdown.GetTimeout(),
			func() error { return server.Listen(cfg.HTTP.GetAddress()) },
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return server.ShutdownWithContext(ctx)
			},
			// Сброс хранилищ на диск после остановки приема запросов.
			func(ctx context.Context) error {
				log.Info(ctx, LogFlushingStorage)
				return facade.Flush(ctx)
			},
		)
		if err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
