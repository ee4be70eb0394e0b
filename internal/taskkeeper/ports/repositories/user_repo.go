package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// UserRepository добавляет к хранилищу пользователей поиск, аутентификацию и прогресс.
type UserRepository interface {
	Repository[entities.User]

	FindByUsername(username string) (*entities.User, bool)

	// Authenticate ищет пользователя по имени и сверяет пароль с хэшем.
	Authenticate(ctx context.Context, username, password string) (*entities.User, bool, error)

	// CompleteTask начисляет пользователю опыт за задачу.
	CompleteTask(ctx context.Context, userID uuid.UUID) (leveledUp bool, found bool, err error)
}
