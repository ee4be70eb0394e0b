// Package services содержит реализации сервисов паролей и токенов доступа.
package services

import (
	"errors"

	"taskkeeper/internal/taskkeeper/config"
	"taskkeeper/internal/taskkeeper/ports/services"
)

// ErrMissingSecretKey возвращается, если в конфигурации не задан ключ подписи токенов.
var ErrMissingSecretKey = errors.New("jwt secret key is not configured")

// ServiceFactory хранит сервисы паролей и токенов, собранные из секции jwt конфигурации.
type ServiceFactory struct {
	passwords services.PasswordService
	tokens    services.TokenService
}

// NewServiceFactory собирает сервисы из конфигурации. Стоимость bcrypt вне
// допустимого диапазона заменяется стоимостью по умолчанию.
func NewServiceFactory(cfg *config.JWTConfig) (*ServiceFactory, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	return &ServiceFactory{
		passwords: NewPasswordHasher(cfg.BCryptCost),
		tokens:    NewJWT(cfg.SecretKey, cfg.GetAccessTokenTTL()),
	}, nil
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwords
}

// TokenService возвращает сервис токенов доступа.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokens
}
