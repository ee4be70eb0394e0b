package main

import (
	"context"

	"taskkeeper/internal/taskkeeper/adapters/jsonstore"
	"taskkeeper/internal/taskkeeper/adapters/services"
	"taskkeeper/internal/taskkeeper/app"
	"taskkeeper/internal/taskkeeper/config"
)

// newFacade открывает хранилища в дереве данных и собирает фасад.
func newFacade(ctx context.Context, cfg *config.StorageConfig, serviceFactory *services.ServiceFactory) (*app.FacadeImpl, error) {
	storageEnv, err := cfg.GetEnvironment()
	if err != nil {
		return nil, err
	}

	resolver, err := jsonstore.NewPathResolver(cfg.Root, storageEnv)
	if err != nil {
		return nil, err
	}
	repos := jsonstore.NewRepositoryFactory(resolver, cfg.GetDuplicatePolicy())

	passwords := serviceFactory.PasswordService()
	users, err := repos.UserRepository(ctx, passwords)
	if err != nil {
		return nil, err
	}
	tasks, err := repos.TaskRepository(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := repos.GroupRepository(ctx)
	if err != nil {
		return nil, err
	}

	return app.NewFacade(users, tasks, groups, passwords), nil
}
