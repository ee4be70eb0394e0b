// Package services содержит доменные правила для сервисов паролей и токенов.
package services

import (
	"errors"
	"fmt"
	"unicode"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// Ограничения длины пароля. bcrypt учитывает только первые 72 байта.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Ошибки паролей. Ошибки формата являются ошибками валидации.
var (
	ErrHashingFailed    = errors.New("failed to hash password")
	ErrInvalidPassword  = fmt.Errorf("%w: invalid password", entities.ErrInvalidArgument)
	ErrPasswordTooShort = fmt.Errorf("%w: password must contain at least %d characters", ErrInvalidPassword, MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must not exceed %d bytes", ErrInvalidPassword, MaxPasswordLength)
	ErrPasswordTooWeak  = fmt.Errorf("%w: password must contain at least one letter and one digit", ErrInvalidPassword)
)

// ValidatePassword проверяет формат пароля в открытом виде.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordTooWeak
	}
	return nil
}
