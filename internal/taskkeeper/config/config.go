// Package config содержит конфигурацию сервиса taskkeeper.
package config

import (
	"context"

	"go.uber.org/zap"

	pkgconfig "taskkeeper/pkg/config"
	"taskkeeper/pkg/logger"
)

// ServiceName - имя сервиса в логах и конфигурации.
const ServiceName = "taskkeeper"

const logConfigLoaded = "taskkeeper configuration"

// Config представляет полную конфигурацию сервиса.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из файла path (если он есть) и переменных окружения.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, logConfigLoaded,
		zap.String("storage_root", cfg.Storage.Root),
		zap.String("storage_env", cfg.Storage.Env),
		zap.Bool("storage_reject_duplicate_ids", cfg.Storage.RejectDuplicateIDs),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("access_token_ttl", cfg.JWT.GetAccessTokenTTL()),
		zap.Duration("shutdown_timeout", cfg.Shutdown.GetTimeout()))

	return cfg, nil
}
