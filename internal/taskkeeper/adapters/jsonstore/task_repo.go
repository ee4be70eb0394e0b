package jsonstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// KindTask - имя файла задач.
const KindTask = "Task"

// TaskRepository хранит задачи.
type TaskRepository struct {
	*Store[entities.Task]
}

// NewTaskRepository открывает хранилище задач.
func NewTaskRepository(ctx context.Context, resolver *PathResolver, duplicates DuplicatePolicy) (*TaskRepository, error) {
	store, err := NewStore(ctx, resolver, Options[entities.Task]{
		Kind:       KindTask,
		IDOf:       (*entities.Task).ID,
		Clone:      (*entities.Task).Clone,
		Compare:    compareByCreation[*entities.Task],
		Duplicates: duplicates,
	})
	if err != nil {
		return nil, err
	}
	return &TaskRepository{Store: store}, nil
}

// ByAssignedUser возвращает задачи, в которых userID числится исполнителем.
func (r *TaskRepository) ByAssignedUser(userID uuid.UUID) []*entities.Task {
	return r.Filter(func(t *entities.Task) bool { return t.IsAssigned(userID) })
}

// ActiveByAssignedUser возвращает незакрытые задачи пользователя.
func (r *TaskRepository) ActiveByAssignedUser(userID uuid.UUID) []*entities.Task {
	return r.Filter(func(t *entities.Task) bool { return t.IsActive() && t.IsAssigned(userID) })
}

// ByStatus фильтрует задачи по статусу.
func (r *TaskRepository) ByStatus(status entities.Status) []*entities.Task {
	return r.Filter(func(t *entities.Task) bool { return t.Status() == status })
}

// ByPriority фильтрует задачи по приоритету.
func (r *TaskRepository) ByPriority(priority entities.Priority) []*entities.Task {
	return r.Filter(func(t *entities.Task) bool { return t.Priority() == priority })
}

// BeforeDeadline возвращает задачи со сроком строго раньше date. Задачи без срока не попадают.
func (r *TaskRepository) BeforeDeadline(date time.Time) []*entities.Task {
	return r.Filter(func(t *entities.Task) bool { return t.DueBefore(date) })
}

// AssignUser назначает пользователя на задачу. false, если задачи нет или он уже назначен.
func (r *TaskRepository) AssignUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	changed, _, err := r.Mutate(ctx, taskID, func(t *entities.Task) (bool, error) {
		return t.AssignUser(userID), nil
	})
	return changed, err
}

// UnassignUser снимает пользователя с задачи.
func (r *TaskRepository) UnassignUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	changed, _, err := r.Mutate(ctx, taskID, func(t *entities.Task) (bool, error) {
		return t.UnassignUser(userID), nil
	})
	return changed, err
}

// SetStatus меняет статус задачи. false, если задачи нет или статус уже такой.
func (r *TaskRepository) SetStatus(ctx context.Context, taskID uuid.UUID, status entities.Status) (bool, error) {
	changed, _, err := r.Mutate(ctx, taskID, func(t *entities.Task) (bool, error) {
		if t.Status() == status {
			return false, nil
		}
		if err := t.SetStatus(status); err != nil {
			return false, err
		}
		return true, nil
	})
	return changed, err
}

// UpdateFields применяет apply к текущему состоянию задачи под блокировкой записи
// и сохраняет результат. Назначения, сделанные параллельно, не теряются.
// nil, если задачи нет; ошибка apply отменяет изменение.
func (r *TaskRepository) UpdateFields(ctx context.Context, taskID uuid.UUID, apply func(*entities.Task) error) (*entities.Task, error) {
	var updated *entities.Task
	_, found, err := r.Mutate(ctx, taskID, func(t *entities.Task) (bool, error) {
		if err := apply(t); err != nil {
			return false, err
		}
		updated = t.Clone()
		return true, nil
	})
	if err != nil || !found {
		return nil, err
	}
	return updated, nil
}
