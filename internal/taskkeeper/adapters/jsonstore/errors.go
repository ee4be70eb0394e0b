// Package jsonstore реализует хранение сущностей в JSON-файлах:
// по одному файлу и одному кэшу в памяти на тип сущности.
package jsonstore

import (
	"errors"
	"fmt"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// Виды ошибок хранилища.
var (
	// ErrPersistence - ошибка чтения, записи или разбора файла.
	ErrPersistence = errors.New("persistence failure")
	// ErrConfiguration - хранилище сконфигурировано неверно; возникает только при создании.
	ErrConfiguration = errors.New("store configuration error")
	// ErrDuplicateID возвращается Add при политике DuplicateReject.
	ErrDuplicateID = fmt.Errorf("%w: entity with this id already exists", entities.ErrInvalidArgument)
	// ErrNilEntity возвращается при попытке сохранить nil.
	ErrNilEntity = fmt.Errorf("%w: entity cannot be nil", entities.ErrInvalidArgument)
)

func persistenceError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrPersistence, op, path, err)
}

func configurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
