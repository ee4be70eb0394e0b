// Package dto содержит структуры запросов и ответов HTTP API.
package dto

import (
	"time"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// RegisterRequest представляет запрос на регистрацию.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на вход.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ на успешный вход.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// UserResponse - публичное представление пользователя, без хэша пароля.
type UserResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Username  string            `json:"username"`
	Leveling  entities.Leveling `json:"leveling"`
}

// NewUserResponse преобразует пользователя в ответ.
func NewUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:        u.ID().String(),
		CreatedAt: u.CreatedAt(),
		Username:  u.Username(),
		Leveling:  u.Leveling(),
	}
}

// ChangedResponse сообщает, изменилось ли состояние.
type ChangedResponse struct {
	Changed bool `json:"changed"`
}

// ErrorResponse представляет ошибку API.
type ErrorResponse struct {
	Error string `json:"error"`
}
