package jsonstore

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/pkg/fsutil"
	"taskkeeper/pkg/logger"
)

const (
	componentName = "jsonstore"
	attrKind      = "kind"
	attrPath      = "path"
	attrID        = "id"
	attrCount     = "count"

	methodLoadAll     = "LoadAll"
	methodAdd         = "Add"
	methodUpdate      = "Update"
	methodRemove      = "Remove"
	methodMutate      = "Mutate"
	methodSaveChanges = "SaveChanges"
	methodRefresh     = "Refresh"

	msgStoreOpened       = "store opened"
	msgFileMissing       = "data file vanished, treating as empty"
	msgDuplicateInFile   = "duplicate ids in data file, last occurrence wins"
	msgOverwritingEntity = "overwriting entity with existing id"
	msgEntityNotFound    = "entity not found"
	msgRollingBack       = "persisting failed, cache rolled back"
	msgReloadFailed      = "reload after save failed, cache keeps saved state"
	msgSaved             = "store saved"

	opRead   = "reading"
	opDecode = "decoding"
	opEncode = "encoding"
	opWrite  = "writing"
)

// DuplicatePolicy определяет поведение Add при совпадении ID.
type DuplicatePolicy int

const (
	// DuplicateOverwrite молча заменяет существующую сущность.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject возвращает ErrDuplicateID.
	DuplicateReject
)

// Options описывает тип сущности, хранимый в Store.
type Options[T any] struct {
	// Kind - имя типа сущности, оно же имя файла.
	Kind string
	// Extension по умолчанию ExtJSON. Кодек есть только для JSON.
	Extension Extension
	// IDOf извлекает идентификатор сущности.
	IDOf func(*T) uuid.UUID
	// Clone возвращает глубокую копию сущности. Кэш никогда не отдается наружу напрямую.
	Clone func(*T) *T
	// Compare задает порядок снимков и файла. По умолчанию - по ID.
	Compare func(a, b *T) int
	// Constraint проверяет кандидата против остальных сущностей при Add и Update
	// под блокировкой записи. others нельзя изменять.
	Constraint func(candidate *T, others iter.Seq[*T]) error
	Duplicates DuplicatePolicy
}

// Store - кэш сущностей одного типа, синхронизированный с одним JSON-файлом.
//
// Каждая мутация обновляет кэш, записывает весь кэш в файл и перечитывает его.
// Последовательность мутация-запись-перечитывание выполняется под мьютексом записи,
// поэтому параллельные мутации одного хранилища не теряют обновлений.
type Store[T any] struct {
	kind       string
	path       string
	codec      Codec[T]
	idOf       func(*T) uuid.UUID
	clone      func(*T) *T
	compare    func(a, b *T) int
	constraint func(candidate *T, others iter.Seq[*T]) error
	duplicates DuplicatePolicy

	writeMu sync.Mutex

	mu    sync.RWMutex
	cache map[uuid.UUID]*T
}

// NewStore проверяет конфигурацию, создает файл при необходимости и загружает кэш.
func NewStore[T any](ctx context.Context, resolver *PathResolver, opts Options[T]) (*Store[T], error) {
	if resolver == nil {
		return nil, configurationError("path resolver is required")
	}
	if opts.IDOf == nil {
		return nil, configurationError("kind %q: id extractor is required", opts.Kind)
	}
	if opts.Clone == nil {
		return nil, configurationError("kind %q: clone function is required", opts.Kind)
	}
	if opts.Extension == "" {
		opts.Extension = ExtJSON
	}
	if opts.Extension != ExtJSON {
		return nil, configurationError("kind %q: no codec for extension %q", opts.Kind, opts.Extension)
	}

	s := &Store[T]{
		kind:       opts.Kind,
		idOf:       opts.IDOf,
		clone:      opts.Clone,
		compare:    opts.Compare,
		constraint: opts.Constraint,
		duplicates: opts.Duplicates,
		cache:      make(map[uuid.UUID]*T),
	}
	if s.compare == nil {
		s.compare = func(a, b *T) int {
			ida, idb := s.idOf(a), s.idOf(b)
			return bytes.Compare(ida[:], idb[:])
		}
	}

	path, err := resolver.Ensure(opts.Kind, opts.Extension, s.codec.Empty())
	if err != nil {
		return nil, err
	}
	s.path = path

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	s.log(ctx, "NewStore").Info(ctx, msgStoreOpened, zap.Int(attrCount, s.Len()))
	return s, nil
}

func (s *Store[T]) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(
		zap.String(logger.Component, componentName),
		zap.String(attrKind, s.kind),
		zap.String(logger.Method, method),
	)
}

// Kind возвращает имя типа сущности.
func (s *Store[T]) Kind() string { return s.kind }

// Path возвращает путь к файлу данных.
func (s *Store[T]) Path() string { return s.path }

// Len возвращает число сущностей в кэше.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// LoadAll читает текущее содержимое файла. Отсутствующий или пустой файл -
// пустая последовательность; файл и каталог создаются при необходимости.
// Кэш не изменяется.
func (s *Store[T]) LoadAll(ctx context.Context) (iter.Seq[*T], error) {
	if _, err := fsutil.Ensure(s.path, s.codec.Empty()); err != nil {
		return nil, persistenceError("ensure", s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log(ctx, methodLoadAll).Warn(ctx, msgFileMissing, zap.String(attrPath, s.path))
			return func(func(*T) bool) {}, nil
		}
		return nil, persistenceError(opRead, s.path, err)
	}

	items, err := s.codec.Decode(data)
	if err != nil {
		return nil, persistenceError(opDecode, s.path, err)
	}

	return slices.Values(items), nil
}

// GetByID возвращает копию сущности из кэша; диск не читается.
func (s *Store[T]) GetByID(id uuid.UUID) (*T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.cache[id]
	if !ok {
		return nil, false
	}
	return s.clone(entity), true
}

// GetAll возвращает согласованный снимок кэша (копии сущностей).
func (s *Store[T]) GetAll() []*T {
	return s.Filter(nil)
}

// Filter возвращает копии сущностей, удовлетворяющих match, в порядке Compare.
// nil match выбирает все сущности.
func (s *Store[T]) Filter(match func(*T) bool) []*T {
	s.mu.RLock()
	items := make([]*T, 0, len(s.cache))
	for _, entity := range s.cache {
		if match == nil || match(entity) {
			items = append(items, s.clone(entity))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(items, s.compare)
	return items
}

// Add кладет сущность в кэш по ее ID, сохраняет и перечитывает файл.
func (s *Store[T]) Add(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	log := s.log(ctx, methodAdd)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := s.idOf(entity)
	if err := s.checkConstraint(entity, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev, existed := s.cache[id]
	if existed && s.duplicates == DuplicateReject {
		s.mu.Unlock()
		return nil, ErrDuplicateID
	}
	s.cache[id] = s.clone(entity)
	s.mu.Unlock()

	if existed {
		log.Warn(ctx, msgOverwritingEntity, zap.String(attrID, id.String()))
	}

	err := s.commit(ctx, log, func() {
		if existed {
			s.cache[id] = prev
		} else {
			delete(s.cache, id)
		}
	})
	if err != nil {
		return nil, err
	}
	return s.current(id, entity), nil
}

// Update заменяет сущность, только если ее ID уже есть в кэше.
// Для неизвестного ID возвращает nil без обращения к диску.
func (s *Store[T]) Update(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	log := s.log(ctx, methodUpdate)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := s.idOf(entity)

	s.mu.RLock()
	prev, ok := s.cache[id]
	s.mu.RUnlock()
	if !ok {
		log.Debug(ctx, msgEntityNotFound, zap.String(attrID, id.String()))
		return nil, nil
	}

	if err := s.checkConstraint(entity, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[id] = s.clone(entity)
	s.mu.Unlock()

	if err := s.commit(ctx, log, func() { s.cache[id] = prev }); err != nil {
		return nil, err
	}
	return s.current(id, entity), nil
}

// Remove удаляет сущность из кэша и сохраняет файл. false, если ID неизвестен.
func (s *Store[T]) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	log := s.log(ctx, methodRemove)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev, ok := s.cache[id]
	if !ok {
		s.mu.Unlock()
		log.Debug(ctx, msgEntityNotFound, zap.String(attrID, id.String()))
		return false, nil
	}
	delete(s.cache, id)
	s.mu.Unlock()

	if err := s.commit(ctx, log, func() { s.cache[id] = prev }); err != nil {
		return false, err
	}
	return true, nil
}

// Mutate применяет fn к копии сущности id. Если fn сообщает об изменении,
// копия заменяет сущность в кэше, после чего файл сохраняется и перечитывается.
// Ошибка fn прерывает операцию без изменений.
func (s *Store[T]) Mutate(ctx context.Context, id uuid.UUID, fn func(*T) (bool, error)) (changed bool, found bool, err error) {
	log := s.log(ctx, methodMutate)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	prev, ok := s.cache[id]
	s.mu.RUnlock()
	if !ok {
		log.Debug(ctx, msgEntityNotFound, zap.String(attrID, id.String()))
		return false, false, nil
	}

	working := s.clone(prev)
	changed, err = fn(working)
	if err != nil || !changed {
		return false, true, err
	}

	s.mu.Lock()
	s.cache[id] = working
	s.mu.Unlock()

	if err := s.commit(ctx, log, func() { s.cache[id] = prev }); err != nil {
		return false, true, err
	}
	return true, true, nil
}

// SaveChanges записывает весь кэш в файл, перезаписывая его.
func (s *Store[T]) SaveChanges(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.save(ctx)
}

// Refresh очищает кэш и заново загружает его из файла.
// При ошибке чтения кэш остается прежним.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.refresh(ctx)
}

// commit сохраняет кэш и перечитывает файл. Если запись не удалась, rollback
// возвращает кэш в состояние до операции; rollback вызывается под s.mu.
func (s *Store[T]) commit(ctx context.Context, log *logger.Logger, rollback func()) error {
	if err := s.save(ctx); err != nil {
		s.mu.Lock()
		rollback()
		s.mu.Unlock()
		log.Error(ctx, msgRollingBack, zap.Error(err))
		return err
	}
	if err := s.refresh(ctx); err != nil {
		log.Error(ctx, msgReloadFailed, zap.Error(err))
		return err
	}
	return nil
}

func (s *Store[T]) save(ctx context.Context) error {
	// Сущности в кэше не изменяются на месте, поэтому кодировать можно без блокировки.
	s.mu.RLock()
	items := make([]*T, 0, len(s.cache))
	for _, entity := range s.cache {
		items = append(items, entity)
	}
	s.mu.RUnlock()

	slices.SortFunc(items, s.compare)
	data, err := s.codec.Encode(items)
	if err != nil {
		return persistenceError(opEncode, s.path, err)
	}

	if err := fsutil.WriteAtomic(s.path, data); err != nil {
		return persistenceError(opWrite, s.path, err)
	}

	s.log(ctx, methodSaveChanges).Debug(ctx, msgSaved, zap.Int(attrCount, len(items)))
	return nil
}

func (s *Store[T]) refresh(ctx context.Context) error {
	items, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	fresh := make(map[uuid.UUID]*T)
	duplicates := 0
	for entity := range items {
		id := s.idOf(entity)
		if _, ok := fresh[id]; ok {
			duplicates++
		}
		fresh[id] = entity
	}
	if duplicates > 0 {
		s.log(ctx, methodRefresh).Warn(ctx, msgDuplicateInFile,
			zap.String(attrPath, s.path), zap.Int(attrCount, duplicates))
	}

	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()
	return nil
}

func (s *Store[T]) checkConstraint(candidate *T, id uuid.UUID) error {
	if s.constraint == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	others := func(yield func(*T) bool) {
		for otherID, entity := range s.cache {
			if otherID == id {
				continue
			}
			if !yield(entity) {
				return
			}
		}
	}
	return s.constraint(candidate, others)
}

// current возвращает перечитанную копию сущности id, либо копию fallback,
// если после перечитывания ее нет в кэше.
func (s *Store[T]) current(id uuid.UUID, fallback *T) *T {
	if entity, ok := s.GetByID(id); ok {
		return entity
	}
	return s.clone(fallback)
}
