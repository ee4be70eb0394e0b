package handlers

import (
	"context"
	"slices"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/adapters/http/dto"
	"taskkeeper/internal/taskkeeper/adapters/http/middleware"
	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/pkg/logger"
)

const (
	paramTaskID = "id"
	paramUserID = "userId"
)

// CreateTask создает задачу и назначает на нее автора.
func (h *Handler) CreateTask(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}

	var req dto.TaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	task, err := entities.NewTask(req.Title)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if err := req.Apply(task); err != nil {
		return writeError(requestCtx, c, err)
	}
	task.AssignUser(userID)

	created, err := h.facade.AddTask(requestCtx, task)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(created))
}

// ListTasks возвращает задачи текущего пользователя, суженные фильтрами status,
// priority и before; active=true исключает закрытые.
func (h *Handler) ListTasks(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}

	var filters []func(*entities.Task) bool
	if raw := c.Query("status"); raw != "" {
		status, err := entities.ParseStatus(raw)
		if err != nil {
			return writeError(requestCtx, c, err)
		}
		filters = append(filters, func(t *entities.Task) bool { return t.Status() == status })
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := entities.ParsePriority(raw)
		if err != nil {
			return writeError(requestCtx, c, err)
		}
		filters = append(filters, func(t *entities.Task) bool { return t.Priority() == priority })
	}
	if raw := c.Query("before"); raw != "" {
		date, err := entities.ParseDate(raw)
		if err != nil {
			return writeError(requestCtx, c, err)
		}
		filters = append(filters, func(t *entities.Task) bool { return t.DueBefore(date) })
	}
	if active, _ := strconv.ParseBool(c.Query("active")); active {
		filters = append(filters, (*entities.Task).IsActive)
	}

	tasks := slices.DeleteFunc(h.facade.TasksByUser(userID), func(t *entities.Task) bool {
		for _, keep := range filters {
			if !keep(t) {
				return true
			}
		}
		return false
	})
	return c.JSON(dto.NewTaskResponses(tasks))
}

// GetTask возвращает задачу по ID. Доступно исполнителям задачи.
func (h *Handler) GetTask(c fiber.Ctx) error {
	task, ok := h.assignedTask(c)
	if !ok {
		return nil
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// UpdateTask заменяет изменяемые поля задачи. Назначения не меняются,
// закрытую задачу нельзя открыть заново. Доступно исполнителям задачи.
func (h *Handler) UpdateTask(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}
	taskID, ok := paramID(c, paramTaskID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}

	var req dto.TaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	// Проверки выполняются над текущим состоянием задачи под блокировкой хранилища.
	updated, err := h.facade.UpdateTaskFields(requestCtx, taskID, func(task *entities.Task) error {
		if !task.IsAssigned(userID) {
			return errNotAssignee
		}
		wasClosed := !task.IsActive()
		if err := req.Apply(task); err != nil {
			return err
		}
		if wasClosed && task.IsActive() {
			return errTaskClosed
		}
		return nil
	})
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if updated == nil {
		return fail(c, fiber.StatusNotFound, ErrorTaskNotFound)
	}
	return c.JSON(dto.NewTaskResponse(updated))
}

// DeleteTask удаляет задачу. Доступно исполнителям задачи.
func (h *Handler) DeleteTask(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	task, ok := h.assignedTask(c)
	if !ok {
		return nil
	}

	removed, err := h.facade.RemoveTask(requestCtx, task.ID())
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if !removed {
		return fail(c, fiber.StatusNotFound, ErrorTaskNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteTask закрывает задачу и начисляет опыт исполнителям. Доступно исполнителям задачи.
func (h *Handler) CompleteTask(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	task, ok := h.assignedTask(c)
	if !ok {
		return nil
	}

	completion, err := h.facade.CompleteTask(requestCtx, task.ID())
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if completion == nil {
		return fail(c, fiber.StatusNotFound, ErrorTaskNotFound)
	}
	return c.JSON(dto.NewCompletionResponse(completion.Closed, completion.LeveledUp))
}

// AssignTask назначает пользователя на задачу. Доступно исполнителям задачи.
func (h *Handler) AssignTask(c fiber.Ctx) error {
	return h.changeAssignment(c, h.facade.AssignTaskToUser)
}

// UnassignTask снимает пользователя с задачи. Доступно исполнителям задачи.
func (h *Handler) UnassignTask(c fiber.Ctx) error {
	return h.changeAssignment(c, h.facade.UnassignTaskFromUser)
}

func (h *Handler) changeAssignment(
	c fiber.Ctx,
	change func(ctx context.Context, taskID, userID uuid.UUID) (bool, error),
) error {
	requestCtx := middleware.RequestContext(c)
	task, ok := h.assignedTask(c)
	if !ok {
		return nil
	}
	userID, ok := paramID(c, paramUserID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}
	if _, ok := h.facade.GetUser(userID); !ok {
		return fail(c, fiber.StatusNotFound, ErrorUserNotFound)
	}

	changed, err := change(requestCtx, task.ID(), userID)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	return c.JSON(dto.ChangedResponse{Changed: changed})
}

// assignedTask загружает задачу из пути и проверяет, что текущий пользователь на нее назначен.
// При false ответ уже записан.
func (h *Handler) assignedTask(c fiber.Ctx) (*entities.Task, bool) {
	callerID, ok := currentUser(c)
	if !ok {
		_ = fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
		return nil, false
	}
	taskID, ok := paramID(c, paramTaskID)
	if !ok {
		_ = fail(c, fiber.StatusBadRequest, ErrorInvalidID)
		return nil, false
	}

	task, ok := h.facade.GetTask(taskID)
	if !ok {
		_ = fail(c, fiber.StatusNotFound, ErrorTaskNotFound)
		return nil, false
	}
	if !task.IsAssigned(callerID) {
		_ = fail(c, fiber.StatusForbidden, ErrorNotAssignee)
		return nil, false
	}
	return task, true
}
