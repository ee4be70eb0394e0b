package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/internal/taskkeeper/ports/api"
	"taskkeeper/pkg/logger"
)

const (
	methodAssignTask   = "AssignTaskToUser"
	methodCompleteTask = "CompleteTask"

	msgAssignUnknownUser  = "assignment to non-existent user ignored"
	msgTaskNotFound       = "task not found"
	msgTaskAlreadyClosed  = "task already closed, no experience awarded"
	msgTaskCompleted      = "task completed"
	msgAssigneeNotFound   = "assigned user no longer exists"
	msgErrAwardExperience = "failed to award experience"

	errCtxCreatingTask   = "creating task"
	errCtxUpdatingTask   = "updating task"
	errCtxRemovingTask   = "removing task"
	errCtxAssigningTask  = "assigning task"
	errCtxUnassigning    = "unassigning task"
	errCtxClosingTask    = "closing task"
	errCtxAwardingPoints = "awarding experience"
)

// AddTask сохраняет новую задачу.
func (f *FacadeImpl) AddTask(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	created, err := f.tasks.Add(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingTask, err)
	}
	return created, nil
}

// UpdateTask заменяет существующую задачу; nil, если ее нет.
func (f *FacadeImpl) UpdateTask(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	updated, err := f.tasks.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingTask, err)
	}
	return updated, nil
}

// UpdateTaskFields изменяет задачу на месте функцией apply; nil, если задачи нет.
// В отличие от UpdateTask, не перезаписывает назначения, сделанные после чтения задачи.
func (f *FacadeImpl) UpdateTaskFields(ctx context.Context, taskID uuid.UUID, apply func(*entities.Task) error) (*entities.Task, error) {
	updated, err := f.tasks.UpdateFields(ctx, taskID, apply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingTask, err)
	}
	return updated, nil
}

// RemoveTask удаляет задачу. Возвращает false, если задачи не было.
func (f *FacadeImpl) RemoveTask(ctx context.Context, taskID uuid.UUID) (bool, error) {
	removed, err := f.tasks.Remove(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxRemovingTask, err)
	}
	return removed, nil
}

// GetTask возвращает копию задачи.
func (f *FacadeImpl) GetTask(taskID uuid.UUID) (*entities.Task, bool) {
	return f.tasks.GetByID(taskID)
}

// AssignTaskToUser назначает существующего пользователя на задачу.
// false, если задачи или пользователя нет либо он уже назначен.
func (f *FacadeImpl) AssignTaskToUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	if _, ok := f.users.GetByID(userID); !ok {
		logger.Log(ctx).Debug(ctx, msgAssignUnknownUser,
			zap.String(logger.Method, methodAssignTask),
			zap.String("userID", userID.String()))
		return false, nil
	}

	changed, err := f.tasks.AssignUser(ctx, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxAssigningTask, err)
	}
	return changed, nil
}

// UnassignTaskFromUser снимает userID с задачи.
func (f *FacadeImpl) UnassignTaskFromUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	changed, err := f.tasks.UnassignUser(ctx, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxUnassigning, err)
	}
	return changed, nil
}

// CompleteTask закрывает задачу и начисляет опыт каждому назначенному пользователю.
// Повторное закрытие опыт не начисляет.
func (f *FacadeImpl) CompleteTask(ctx context.Context, taskID uuid.UUID) (*api.TaskCompletion, error) {
	log := logger.Log(ctx).With(zap.String(logger.Method, methodCompleteTask), zap.String("taskID", taskID.String()))

	task, ok := f.tasks.GetByID(taskID)
	if !ok {
		log.Debug(ctx, msgTaskNotFound)
		return nil, nil
	}

	closed, err := f.tasks.SetStatus(ctx, taskID, entities.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxClosingTask, err)
	}
	if !closed {
		log.Debug(ctx, msgTaskAlreadyClosed)
		return &api.TaskCompletion{Closed: false}, nil
	}

	result := &api.TaskCompletion{Closed: true}
	for _, userID := range task.AssignedUsers() {
		leveledUp, found, err := f.users.CompleteTask(ctx, userID)
		if err != nil {
			log.Error(ctx, msgErrAwardExperience, zap.String("userID", userID.String()), zap.Error(err))
			return result, fmt.Errorf("%s: %w", errCtxAwardingPoints, err)
		}
		if !found {
			log.Warn(ctx, msgAssigneeNotFound, zap.String("userID", userID.String()))
			continue
		}
		if leveledUp {
			result.LeveledUp = append(result.LeveledUp, userID)
		}
	}

	log.Info(ctx, msgTaskCompleted, zap.Int("leveledUp", len(result.LeveledUp)))
	return result, nil
}

// TasksByUser возвращает все задачи исполнителя userID.
func (f *FacadeImpl) TasksByUser(userID uuid.UUID) []*entities.Task {
	return f.tasks.ByAssignedUser(userID)
}

// ActiveTasksByUser возвращает открытые задачи исполнителя.
func (f *FacadeImpl) ActiveTasksByUser(userID uuid.UUID) []*entities.Task {
	return f.tasks.ActiveByAssignedUser(userID)
}

func (f *FacadeImpl) TasksByStatus(status entities.Status) []*entities.Task {
	return f.tasks.ByStatus(status)
}

func (f *FacadeImpl) TasksByPriority(priority entities.Priority) []*entities.Task {
	return f.tasks.ByPriority(priority)
}

// TasksBeforeDeadline возвращает задачи со сроком строго раньше date.
func (f *FacadeImpl) TasksBeforeDeadline(date time.Time) []*entities.Task {
	return f.tasks.BeforeDeadline(date)
}
