package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"taskkeeper/internal/taskkeeper/domain/services"
	svc "taskkeeper/internal/taskkeeper/ports/services"
)

const (
	errMsgHashPassword = "hashing password"
	errMsgCompareHash  = "comparing password with stored hash"
)

// PasswordHasher хранит пароли пользователей в виде bcrypt-хэшей.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher возвращает PasswordService со стоимостью cost.
// Стоимость вне [bcrypt.MinCost, bcrypt.MaxCost] заменяется bcrypt.DefaultCost.
func NewPasswordHasher(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash отклоняет пароли, не проходящие services.ValidatePassword, до хэширования.
func (h *PasswordHasher) Hash(_ context.Context, password string) (string, error) {
	if err := services.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errMsgHashPassword, services.ErrHashingFailed, err)
	}
	return string(hash), nil
}

// Verify сообщает, соответствует ли пароль хэшу. Несовпадение не является ошибкой.
func (h *PasswordHasher) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, services.ErrInvalidPassword
	}

	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		// Пароль длиннее 72 байт не мог быть захэширован Hash.
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", errMsgCompareHash, err)
	}
}
