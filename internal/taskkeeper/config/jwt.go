package config

import "time"

const defaultAccessTokenTTL = 15 * time.Minute

// JWTConfig содержит настройки токенов доступа и хэширования паролей.
type JWTConfig struct {
	SecretKey      string `yaml:"secret_key" env:"TASKKEEPER_JWT_SECRET_KEY" env-default:"change-me-in-production"`
	AccessTokenTTL string `yaml:"access_token_ttl" env:"TASKKEEPER_JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	BCryptCost     int    `yaml:"bcrypt_cost" env:"TASKKEEPER_BCRYPT_COST" env-default:"10"`
}

// GetAccessTokenTTL возвращает время жизни токена доступа.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || duration <= 0 {
		return defaultAccessTokenTTL
	}
	return duration
}
