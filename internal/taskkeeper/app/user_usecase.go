package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/pkg/logger"
)

const (
	methodRegisterUser = "RegisterUser"
	methodRemoveUser   = "RemoveUser"

	msgStartRegistration = "starting user registration"
	msgInvalidUsername   = "invalid username"
	msgUserRegistered    = "user registered successfully"
	msgRemovingUser      = "removing user with assignments and memberships"
	msgUserNotFound      = "user not found"
	msgUserRemoved       = "user removed"
	msgErrHashPassword   = "failed to hash password"
	msgErrCreateUser     = "failed to create user"
	msgErrCascadeTasks   = "failed to unassign user from task"
	msgErrCascadeGroups  = "failed to remove user from group"
	msgErrRemoveUser     = "failed to remove user"

	errCtxValidatingUsername = "validating username"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxUpdatingUser       = "updating user"
	errCtxUnassigningUser    = "unassigning user from task"
	errCtxLeavingGroup       = "removing user from group"
	errCtxRemovingUser       = "removing user"
	errCtxAuthenticating     = "authenticating user"
)

// RegisterUser проверяет имя и пароль, хэширует пароль и сохраняет нового пользователя.
func (f *FacadeImpl) RegisterUser(ctx context.Context, username, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String(logger.Method, methodRegisterUser), zap.String("username", username))
	log.Debug(ctx, msgStartRegistration)

	if err := entities.ValidateUsername(username); err != nil {
		log.Debug(ctx, msgInvalidUsername, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, err)
	}

	hash, err := f.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Debug(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user, err := entities.NewUser(username, hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	created, err := f.users.Add(ctx, user)
	if err != nil {
		log.Debug(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", created.ID().String()))
	return created, nil
}

// AddUser сохраняет уже созданного пользователя.
func (f *FacadeImpl) AddUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	created, err := f.users.Add(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}
	return created, nil
}

// UpdateUser заменяет существующего пользователя; nil, если его нет.
func (f *FacadeImpl) UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	updated, err := f.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}
	return updated, nil
}

// RemoveUser снимает пользователя со всех задач, исключает из всех групп и удаляет.
// Группа, в которой он был единственным участником, остается без участников.
func (f *FacadeImpl) RemoveUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	log := logger.Log(ctx).With(zap.String(logger.Method, methodRemoveUser), zap.String("userID", userID.String()))

	if _, ok := f.users.GetByID(userID); !ok {
		log.Debug(ctx, msgUserNotFound)
		return false, nil
	}
	log.Debug(ctx, msgRemovingUser)

	for _, task := range f.tasks.ByAssignedUser(userID) {
		if _, err := f.tasks.UnassignUser(ctx, task.ID(), userID); err != nil {
			log.Error(ctx, msgErrCascadeTasks, zap.String("taskID", task.ID().String()), zap.Error(err))
			return false, fmt.Errorf("%s: %w", errCtxUnassigningUser, err)
		}
	}

	for _, group := range f.groups.ByMember(userID) {
		if _, err := f.groups.RemoveMember(ctx, group.ID(), userID); err != nil {
			log.Error(ctx, msgErrCascadeGroups, zap.String("groupID", group.ID().String()), zap.Error(err))
			return false, fmt.Errorf("%s: %w", errCtxLeavingGroup, err)
		}
	}

	removed, err := f.users.Remove(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrRemoveUser, zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxRemovingUser, err)
	}

	log.Info(ctx, msgUserRemoved)
	return removed, nil
}

// GetUser возвращает копию пользователя.
func (f *FacadeImpl) GetUser(userID uuid.UUID) (*entities.User, bool) {
	return f.users.GetByID(userID)
}

func (f *FacadeImpl) FindUserByUsername(username string) (*entities.User, bool) {
	return f.users.FindByUsername(username)
}

// Authenticate возвращает пользователя при совпадении имени и пароля.
func (f *FacadeImpl) Authenticate(ctx context.Context, username, password string) (*entities.User, bool, error) {
	user, ok, err := f.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", errCtxAuthenticating, err)
	}
	return user, ok, nil
}
