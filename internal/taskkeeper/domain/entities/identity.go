// Package entities содержит доменные сущности: пользователей, задачи и группы.
package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidArgument - общий вид ошибок валидации. Все ошибки полей оборачивают его.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptyID возвращается при восстановлении сущности без идентификатора.
var ErrEmptyID = fmt.Errorf("%w: id cannot be empty", ErrInvalidArgument)

// Identity - неизменяемая идентичность сохраняемой сущности.
// Две сущности равны тогда и только тогда, когда совпадают ID и CreatedAt.
type Identity struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

func newIdentity() Identity {
	return Identity{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
}

func restoreIdentity(id uuid.UUID, createdAt time.Time) (Identity, error) {
	if id == uuid.Nil {
		return Identity{}, ErrEmptyID
	}
	return Identity{ID: id, CreatedAt: createdAt.UTC()}, nil
}

// Equal сравнивает идентичности без учета монотонных часов и локации.
func (i Identity) Equal(other Identity) bool {
	return i.ID == other.ID && i.CreatedAt.Equal(other.CreatedAt)
}
