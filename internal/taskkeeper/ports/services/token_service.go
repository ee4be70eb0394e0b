package services

import (
	"context"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/services"
)

// TokenService выпускает и проверяет токены доступа.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID uuid.UUID, username string) (services.AccessToken, error)

	ValidateAccessToken(ctx context.Context, token string) (uuid.UUID, error)
}
