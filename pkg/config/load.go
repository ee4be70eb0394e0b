// Package config загружает конфигурацию из необязательного файла и переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"taskkeeper/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigFileMissing       = "configuration file not found, using environment only"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"

	errFailedLoadConfiguration = "failed to load configuration"
	errFailedStatConfiguration = "failed to stat configuration file"

	attrService = "service"
	attrPath    = "path"
)

// Load заполняет T из файла path (.env, .yaml, .json, .toml), если он существует,
// после чего переменные окружения перекрывают значения файла.
// Пустой path означает чтение только из окружения.
func Load[T any](ctx context.Context, serviceName, path string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))
	log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, path))

	var cfg T

	useFile := path != ""
	if useFile {
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Error(ctx, errFailedStatConfiguration, zap.Error(err))
				return nil, fmt.Errorf("%s: %w", errFailedStatConfiguration, err)
			}
			log.Debug(ctx, msgConfigFileMissing, zap.String(attrPath, path))
			useFile = false
		}
	}

	var err error
	if useFile {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}
