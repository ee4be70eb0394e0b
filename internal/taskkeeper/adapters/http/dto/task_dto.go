package dto

import (
	"time"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// TaskRequest используется для создания и замены изменяемых полей задачи.
// Пустой status сохраняет текущий статус, пустой priority означает NONE.
type TaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
}

// Apply переносит поля запроса в задачу.
func (r *TaskRequest) Apply(task *entities.Task) error {
	if err := task.SetTitle(r.Title); err != nil {
		return err
	}
	task.SetDescription(r.Description)

	if r.Status != "" {
		status, err := entities.ParseStatus(r.Status)
		if err != nil {
			return err
		}
		if err := task.SetStatus(status); err != nil {
			return err
		}
	}

	priority := entities.PriorityNone
	if r.Priority != "" {
		parsed, err := entities.ParsePriority(r.Priority)
		if err != nil {
			return err
		}
		priority = parsed
	}
	if err := task.SetPriority(priority); err != nil {
		return err
	}

	if r.Deadline == nil || *r.Deadline == "" {
		task.ClearDeadline()
		return nil
	}
	deadline, err := entities.ParseDate(*r.Deadline)
	if err != nil {
		return err
	}
	task.SetDeadline(deadline)
	return nil
}

// TaskResponse - представление задачи.
type TaskResponse struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Deadline      *string   `json:"deadline"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	AssignedUsers []string  `json:"assignedUsers"`
}

// NewTaskResponse преобразует задачу в ответ.
func NewTaskResponse(t *entities.Task) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID().String(),
		CreatedAt:     t.CreatedAt(),
		Title:         t.Title(),
		Description:   t.Description(),
		Status:        string(t.Status()),
		Priority:      string(t.Priority()),
		AssignedUsers: uuidStrings(t.AssignedUsers()),
	}
	if deadline, ok := t.Deadline(); ok {
		s := deadline.Format(entities.DateLayout)
		resp.Deadline = &s
	}
	return resp
}

// NewTaskResponses преобразует список задач.
func NewTaskResponses(tasks []*entities.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

// CompletionResponse - результат закрытия задачи.
type CompletionResponse struct {
	Closed    bool     `json:"closed"`
	LeveledUp []string `json:"leveledUp"`
}

// NewCompletionResponse создает ответ о закрытии задачи.
func NewCompletionResponse(closed bool, leveledUp []uuid.UUID) CompletionResponse {
	return CompletionResponse{Closed: closed, LeveledUp: uuidStrings(leveledUp)}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
