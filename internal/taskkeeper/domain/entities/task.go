package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout - формат календарной даты (срок задачи).
const DateLayout = time.DateOnly

// Ошибки домена задачи.
var (
	ErrBlankTitle      = fmt.Errorf("%w: task title cannot be blank", ErrInvalidArgument)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown task status", ErrInvalidArgument)
	ErrInvalidPriority = fmt.Errorf("%w: unknown task priority", ErrInvalidArgument)
	ErrInvalidDeadline = fmt.Errorf("%w: deadline must be a YYYY-MM-DD date", ErrInvalidArgument)
)

// Status - состояние задачи.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusPostponed  Status = "POSTPONED"
	StatusClosed     Status = "CLOSED"
)

// Valid сообщает, является ли значение известным статусом.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusPostponed, StatusClosed:
		return true
	}
	return false
}

// ParseStatus разбирает статус без учета регистра.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Priority - приоритет задачи.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
	PriorityNone   Priority = "NONE"
)

// Valid проверяет, что p входит в допустимый диапазон.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

// ParsePriority разбирает приоритет без учета регистра.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !priority.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return priority, nil
}

// ParseDate разбирает календарную дату YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, s)
	}
	return d, nil
}

// Date отбрасывает время суток: календарная дата t в его локации, полночь UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Task представляет задачу. Набор назначенных пользователей не содержит дубликатов.
type Task struct {
	identity    Identity
	title       string
	description string
	deadline    *time.Time
	status      Status
	priority    Priority
	assigned    map[uuid.UUID]struct{}
}

// NewTask создает открытую задачу без приоритета, срока и исполнителей.
func NewTask(title string) (*Task, error) {
	t := &Task{
		identity: newIdentity(),
		status:   StatusOpen,
		priority: PriorityNone,
		assigned: make(map[uuid.UUID]struct{}),
	}
	if err := t.SetTitle(title); err != nil {
		return nil, err
	}
	return t, nil
}

// Геттеры задачи.
func (t *Task) ID() uuid.UUID        { return t.identity.ID }
func (t *Task) CreatedAt() time.Time { return t.identity.CreatedAt }
func (t *Task) Identity() Identity   { return t.identity }
func (t *Task) Title() string        { return t.title }
func (t *Task) Description() string  { return t.description }
func (t *Task) Status() Status       { return t.status }
func (t *Task) Priority() Priority   { return t.priority }

// Equal сравнивает задачи по идентичности.
func (t *Task) Equal(other *Task) bool { return other != nil && t.identity.Equal(other.identity) }

// SetTitle задает заголовок, обрезая пробелы.
func (t *Task) SetTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrBlankTitle
	}
	t.title = trimmed
	return nil
}

// SetDescription заменяет описание.
func (t *Task) SetDescription(description string) {
	t.description = description
}

// Deadline возвращает срок, если он задан.
func (t *Task) Deadline() (time.Time, bool) {
	if t.deadline == nil {
		return time.Time{}, false
	}
	return *t.deadline, true
}

// SetDeadline задает срок; время суток отбрасывается.
func (t *Task) SetDeadline(deadline time.Time) {
	d := Date(deadline)
	t.deadline = &d
}

// ClearDeadline снимает срок выполнения.
func (t *Task) ClearDeadline() {
	t.deadline = nil
}

// SetStatus задает статус, неизвестные значения отклоняются.
func (t *Task) SetStatus(status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	t.status = status
	return nil
}

// SetPriority задает приоритет, значения вне диапазона отклоняются.
func (t *Task) SetPriority(priority Priority) error {
	if !priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	t.priority = priority
	return nil
}

// IsActive сообщает, что задача не закрыта.
func (t *Task) IsActive() bool {
	return t.status != StatusClosed
}

// DueBefore сообщает, что срок задан и строго раньше date.
func (t *Task) DueBefore(date time.Time) bool {
	return t.deadline != nil && t.deadline.Before(Date(date))
}

// AssignedUsers возвращает отсортированную копию набора исполнителей.
func (t *Task) AssignedUsers() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.assigned))
	for id := range t.assigned {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// IsAssigned сообщает, назначена ли задача userID.
func (t *Task) IsAssigned(userID uuid.UUID) bool {
	_, ok := t.assigned[userID]
	return ok
}

// AssignUser добавляет исполнителя. false, если он уже назначен.
func (t *Task) AssignUser(userID uuid.UUID) bool {
	if t.IsAssigned(userID) {
		return false
	}
	t.assigned[userID] = struct{}{}
	return true
}

// UnassignUser снимает исполнителя. false, если он не был назначен.
func (t *Task) UnassignUser(userID uuid.UUID) bool {
	if !t.IsAssigned(userID) {
		return false
	}
	delete(t.assigned, userID)
	return true
}

// Clone возвращает глубокую копию.
func (t *Task) Clone() *Task {
	c := *t
	if t.deadline != nil {
		d := *t.deadline
		c.deadline = &d
	}
	c.assigned = make(map[uuid.UUID]struct{}, len(t.assigned))
	for id := range t.assigned {
		c.assigned[id] = struct{}{}
	}
	return &c
}

type taskJSON struct {
	ID            uuid.UUID   `json:"id"`
	CreatedAt     time.Time   `json:"createdAt"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Deadline      *string     `json:"deadline"`
	Status        Status      `json:"status"`
	Priority      Priority    `json:"priority"`
	AssignedUsers []uuid.UUID `json:"assignedUsers"`
}

// MarshalJSON реализует json.Marshaler. Срок пишется как YYYY-MM-DD.
func (t *Task) MarshalJSON() ([]byte, error) {
	raw := taskJSON{
		ID:            t.identity.ID,
		CreatedAt:     t.identity.CreatedAt,
		Title:         t.title,
		Description:   t.description,
		Status:        t.status,
		Priority:      t.priority,
		AssignedUsers: t.AssignedUsers(),
	}
	if t.deadline != nil {
		s := t.deadline.Format(DateLayout)
		raw.Deadline = &s
	}
	return json.Marshal(raw)
}

// UnmarshalJSON восстанавливает задачу. Отсутствующие статус и приоритет
// получают значения по умолчанию.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	identity, err := restoreIdentity(raw.ID, raw.CreatedAt)
	if err != nil {
		return err
	}

	restored := Task{
		identity:    identity,
		description: raw.Description,
		status:      StatusOpen,
		priority:    PriorityNone,
		assigned:    make(map[uuid.UUID]struct{}, len(raw.AssignedUsers)),
	}
	if err := restored.SetTitle(raw.Title); err != nil {
		return fmt.Errorf("task %s: %w", raw.ID, err)
	}
	if raw.Status != "" {
		if err := restored.SetStatus(raw.Status); err != nil {
			return fmt.Errorf("task %s: %w", raw.ID, err)
		}
	}
	if raw.Priority != "" {
		if err := restored.SetPriority(raw.Priority); err != nil {
			return fmt.Errorf("task %s: %w", raw.ID, err)
		}
	}
	if raw.Deadline != nil {
		d, err := ParseDate(*raw.Deadline)
		if err != nil {
			return fmt.Errorf("task %s: %w", raw.ID, err)
		}
		restored.deadline = &d
	}
	for _, id := range raw.AssignedUsers {
		restored.assigned[id] = struct{}{}
	}

	*t = restored
	return nil
}
