package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// TaskRepository определяет запросы и мутации задач.
// Булевы результаты мутаций: true - состояние изменилось, false - ничего делать не пришлось.
type TaskRepository interface {
	Repository[entities.Task]

	ByAssignedUser(userID uuid.UUID) []*entities.Task

	ActiveByAssignedUser(userID uuid.UUID) []*entities.Task

	ByStatus(status entities.Status) []*entities.Task

	ByPriority(priority entities.Priority) []*entities.Task

	// BeforeDeadline возвращает задачи со сроком строго раньше date.
	BeforeDeadline(date time.Time) []*entities.Task

	AssignUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	UnassignUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	SetStatus(ctx context.Context, taskID uuid.UUID, status entities.Status) (bool, error)

	// UpdateFields изменяет задачу на месте через apply; nil, если задачи нет.
	UpdateFields(ctx context.Context, taskID uuid.UUID, apply func(*entities.Task) error) (*entities.Task, error)
}
