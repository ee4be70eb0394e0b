// Package repositories определяет порты хранения сущностей.
package repositories

import (
	"context"

	"github.com/google/uuid"
)

// Repository - общий контракт хранилища сущностей одного типа.
// Чтение обслуживается из кэша; каждая мутация сохраняет весь кэш на диск и перечитывает его.
type Repository[T any] interface {
	// GetByID возвращает копию сущности из кэша.
	GetByID(id uuid.UUID) (*T, bool)

	// GetAll возвращает снимок всех сущностей.
	GetAll() []*T

	// Add добавляет сущность. Сущность с тем же ID по умолчанию перезаписывается.
	Add(ctx context.Context, entity *T) (*T, error)

	// Update заменяет существующую сущность; nil, если ID неизвестен.
	Update(ctx context.Context, entity *T) (*T, error)

	// Remove удаляет сущность; false, если ее не было.
	Remove(ctx context.Context, id uuid.UUID) (bool, error)

	// SaveChanges записывает весь кэш в файл.
	SaveChanges(ctx context.Context) error

	// Refresh перечитывает кэш из файла.
	Refresh(ctx context.Context) error
}
