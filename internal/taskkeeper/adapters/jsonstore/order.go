package jsonstore

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

type identified interface {
	ID() uuid.UUID
	CreatedAt() time.Time
}

// compareByCreation упорядочивает сущности по времени создания, затем по ID.
func compareByCreation[P identified](a, b P) int {
	if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
		return c
	}
	ida, idb := a.ID(), b.ID()
	return bytes.Compare(ida[:], idb[:])
}
