package jsonstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// Codec преобразует набор сущностей T в JSON-массив и обратно.
// Тип элемента известен из параметра T, отдельный дескриптор коллекции не нужен.
type Codec[T any] struct{}

var emptyDocument = []byte("[]\n")

// Empty возвращает документ пустой коллекции.
func (Codec[T]) Empty() []byte {
	return bytes.Clone(emptyDocument)
}

// Encode записывает items в порядке следования с отступами.
func (Codec[T]) Encode(items []*T) ([]byte, error) {
	if items == nil {
		items = []*T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding collection: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode разбирает документ. Пустой документ означает пустую коллекцию.
// Комментарии и завершающие запятые допускаются, элементы null пропускаются.
func (Codec[T]) Decode(data []byte) ([]*T, error) {
	stripped := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(stripped) == 0 {
		return nil, nil
	}

	var raw []*T
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return nil, fmt.Errorf("decoding collection: %w", err)
	}

	items := raw[:0]
	for _, item := range raw {
		if item != nil {
			items = append(items, item)
		}
	}
	return items, nil
}
