// Package api определяет единую точку входа для внешних слоев (UI, HTTP).
package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// TaskCompletion - результат закрытия задачи.
type TaskCompletion struct {
	// Closed - false, если задача уже была закрыта и опыт не начислялся.
	Closed bool
	// LeveledUp - исполнители, получившие новый уровень.
	LeveledUp []uuid.UUID
}

// Facade объединяет операции над пользователями, задачами и группами.
//
// Отсутствие сущности сообщается через nil, false или пустой срез, а не ошибкой.
// Ошибки валидации оборачивают entities.ErrInvalidArgument, ошибки хранения -
// ошибку хранилища.
type Facade interface {
	UserFacade
	TaskFacade
	GroupFacade

	// Flush записывает кэши всех хранилищ на диск.
	Flush(ctx context.Context) error
}

// UserFacade - операции над пользователями.
type UserFacade interface {
	// RegisterUser проверяет формат имени и пароля, хэширует пароль и сохраняет пользователя.
	RegisterUser(ctx context.Context, username, password string) (*entities.User, error)
	AddUser(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	// RemoveUser удаляет пользователя и снимает его со всех задач и групп.
	RemoveUser(ctx context.Context, userID uuid.UUID) (bool, error)
	// GetUser и FindUserByUsername возвращают копии из кэша.
	GetUser(userID uuid.UUID) (*entities.User, bool)
	FindUserByUsername(username string) (*entities.User, bool)
	Authenticate(ctx context.Context, username, password string) (*entities.User, bool, error)
}

// TaskFacade - операции над задачами.
type TaskFacade interface {
	AddTask(ctx context.Context, task *entities.Task) (*entities.Task, error)
	UpdateTask(ctx context.Context, task *entities.Task) (*entities.Task, error)
	// UpdateTaskFields изменяет текущее состояние задачи функцией apply под блокировкой хранилища.
	UpdateTaskFields(ctx context.Context, taskID uuid.UUID, apply func(*entities.Task) error) (*entities.Task, error)
	RemoveTask(ctx context.Context, taskID uuid.UUID) (bool, error)
	// GetTask и GetGroup возвращают копии, изменения не попадают в хранилище.
	GetTask(taskID uuid.UUID) (*entities.Task, bool)
	// AssignTaskToUser добавляет исполнителя. false, если задачи или пользователя нет либо он уже назначен.
	AssignTaskToUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
	UnassignTaskFromUser(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
	// CompleteTask закрывает задачу и начисляет опыт исполнителям. nil, если задачи нет.
	CompleteTask(ctx context.Context, taskID uuid.UUID) (*TaskCompletion, error)
	TasksByUser(userID uuid.UUID) []*entities.Task
	ActiveTasksByUser(userID uuid.UUID) []*entities.Task
	TasksByStatus(status entities.Status) []*entities.Task
	TasksByPriority(priority entities.Priority) []*entities.Task
	TasksBeforeDeadline(date time.Time) []*entities.Task
}

// GroupFacade - операции над группами.
type GroupFacade interface {
	AddGroup(ctx context.Context, group *entities.Group) (*entities.Group, error)
	UpdateGroup(ctx context.Context, group *entities.Group) (*entities.Group, error)
	// UpdateGroupDetails меняет имя и описание группы, сохраняя состав участников.
	UpdateGroupDetails(ctx context.Context, groupID uuid.UUID, name, description string) (*entities.Group, error)
	RemoveGroup(ctx context.Context, groupID uuid.UUID) (bool, error)
	GetGroup(groupID uuid.UUID) (*entities.Group, bool)
	GroupsByUser(userID uuid.UUID) []*entities.Group
	GroupsByUserWhereAdmin(userID uuid.UUID) []*entities.Group
	// AddMemberToGroup добавляет участника; false, если он уже состоит в группе.
	AddMemberToGroup(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error)
	RemoveMemberFromGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	UpdateMemberAdminStatus(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error)
}
