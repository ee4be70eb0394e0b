package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ошибки токенов доступа.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
)

// ErrInvalidCredentials возвращается HTTP-слоем при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// JWTConfig содержит настройки для JWT сервиса.
type JWTConfig struct {
	SecretKey      []byte
	AccessTokenTTL time.Duration
}

// JWTClaims - доменное представление claims токена доступа.
type JWTClaims struct {
	UserID    uuid.UUID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessToken - выданный токен доступа.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}
