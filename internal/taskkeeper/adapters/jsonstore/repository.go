package jsonstore

import (
	"context"

	"taskkeeper/internal/taskkeeper/ports/repositories"
	"taskkeeper/internal/taskkeeper/ports/services"
)

var (
	_ repositories.UserRepository  = (*UserRepository)(nil)
	_ repositories.TaskRepository  = (*TaskRepository)(nil)
	_ repositories.GroupRepository = (*GroupRepository)(nil)
)

// RepositoryFactory создает репозитории, работающие с одним деревом данных.
type RepositoryFactory struct {
	resolver   *PathResolver
	duplicates DuplicatePolicy
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(resolver *PathResolver, duplicates DuplicatePolicy) *RepositoryFactory {
	return &RepositoryFactory{resolver: resolver, duplicates: duplicates}
}

// UserRepository открывает хранилище пользователей.
func (f *RepositoryFactory) UserRepository(ctx context.Context, passwords services.PasswordService) (repositories.UserRepository, error) {
	repo, err := NewUserRepository(ctx, f.resolver, f.duplicates, passwords)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// TaskRepository открывает хранилище задач.
func (f *RepositoryFactory) TaskRepository(ctx context.Context) (repositories.TaskRepository, error) {
	repo, err := NewTaskRepository(ctx, f.resolver, f.duplicates)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// GroupRepository открывает хранилище групп.
func (f *RepositoryFactory) GroupRepository(ctx context.Context) (repositories.GroupRepository, error) {
	repo, err := NewGroupRepository(ctx, f.resolver, f.duplicates)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
