// Package app реализует фасад над репозиториями пользователей, задач и групп.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/ports/api"
	"taskkeeper/internal/taskkeeper/ports/repositories"
	svc "taskkeeper/internal/taskkeeper/ports/services"
	"taskkeeper/pkg/logger"
)

const (
	methodFlush = "Flush"

	msgFlushing = "flushing all stores"
	msgFlushed  = "all stores flushed"

	errCtxFlushing = "flushing stores"
)

// FacadeImpl реализует интерфейс api.Facade.
// Операции над несколькими хранилищами не транзакционны.
type FacadeImpl struct {
	users       repositories.UserRepository
	tasks       repositories.TaskRepository
	groups      repositories.GroupRepository
	passwordSvc svc.PasswordService
}

var _ api.Facade = (*FacadeImpl)(nil)

// NewFacade создает фасад над готовыми репозиториями.
func NewFacade(
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	groups repositories.GroupRepository,
	passwordSvc svc.PasswordService,
) *FacadeImpl {
	return &FacadeImpl{
		users:       users,
		tasks:       tasks,
		groups:      groups,
		passwordSvc: passwordSvc,
	}
}

// Flush записывает кэши всех хранилищ на диск. Ошибки отдельных хранилищ объединяются.
func (f *FacadeImpl) Flush(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String(logger.Method, methodFlush))
	log.Debug(ctx, msgFlushing)

	err := errors.Join(
		f.users.SaveChanges(ctx),
		f.tasks.SaveChanges(ctx),
		f.groups.SaveChanges(ctx),
	)
	if err != nil {
		log.Error(ctx, errCtxFlushing, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFlushing, err)
	}

	log.Info(ctx, msgFlushed)
	return nil
}
