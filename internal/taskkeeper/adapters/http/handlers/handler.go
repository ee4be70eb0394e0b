package handlers

import (
	"taskkeeper/internal/taskkeeper/ports/api"
	"taskkeeper/internal/taskkeeper/ports/services"
)

// Handler содержит HTTP обработчики поверх фасада.
type Handler struct {
	facade api.Facade
	tokens services.TokenService
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(facade api.Facade, tokens services.TokenService) *Handler {
	return &Handler{facade: facade, tokens: tokens}
}
