package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/internal/taskkeeper/domain/services"
	portservices "taskkeeper/internal/taskkeeper/ports/services"
	"taskkeeper/pkg/logger"
)

// KindUser - имя файла пользователей.
const KindUser = "User"

const (
	msgUserNotFound     = "user not found"
	msgPasswordMismatch = "password mismatch"
	msgUserLeveledUp    = "user leveled up"
	errCtxVerifying     = "verifying password"
)

// UserRepository хранит пользователей. Имена пользователей уникальны.
type UserRepository struct {
	*Store[entities.User]
	passwords portservices.PasswordService
}

// NewUserRepository открывает хранилище пользователей.
func NewUserRepository(
	ctx context.Context,
	resolver *PathResolver,
	duplicates DuplicatePolicy,
	passwords portservices.PasswordService,
) (*UserRepository, error) {
	if passwords == nil {
		return nil, configurationError("kind %q: password service is required", KindUser)
	}

	store, err := NewStore(ctx, resolver, Options[entities.User]{
		Kind:       KindUser,
		IDOf:       (*entities.User).ID,
		Clone:      (*entities.User).Clone,
		Compare:    compareByCreation[*entities.User],
		Constraint: uniqueUsername,
		Duplicates: duplicates,
	})
	if err != nil {
		return nil, err
	}
	return &UserRepository{Store: store, passwords: passwords}, nil
}

func uniqueUsername(candidate *entities.User, others iter.Seq[*entities.User]) error {
	for other := range others {
		if other.Username() == candidate.Username() {
			return fmt.Errorf("%w: %q", entities.ErrUsernameTaken, candidate.Username())
		}
	}
	return nil
}

// FindByUsername ищет пользователя по точному совпадению имени.
func (r *UserRepository) FindByUsername(username string) (*entities.User, bool) {
	found := r.Filter(func(u *entities.User) bool { return u.Username() == username })
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// Authenticate возвращает пользователя, если пароль совпадает с сохраненным хэшем.
// Неизвестное имя и неверный пароль не являются ошибками.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*entities.User, bool, error) {
	log := logger.Log(ctx).With(zap.String(logger.Method, "UserRepository.Authenticate"))

	user, ok := r.FindByUsername(username)
	if !ok {
		log.Debug(ctx, msgUserNotFound, zap.String("username", username))
		return nil, false, nil
	}

	match, err := r.passwords.Verify(ctx, password, user.PasswordHash())
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			log.Debug(ctx, msgPasswordMismatch, zap.String("username", username))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", errCtxVerifying, err)
	}
	if !match {
		log.Debug(ctx, msgPasswordMismatch, zap.String("username", username))
		return nil, false, nil
	}
	return user, true, nil
}

// CompleteTask начисляет опыт за выполненную задачу и сохраняет пользователя.
func (r *UserRepository) CompleteTask(ctx context.Context, userID uuid.UUID) (bool, bool, error) {
	var leveledUp bool
	_, found, err := r.Mutate(ctx, userID, func(u *entities.User) (bool, error) {
		leveledUp = u.CompleteTask()
		return true, nil
	})
	if err != nil || !found {
		return false, found, err
	}

	if leveledUp {
		logger.Log(ctx).Info(ctx, msgUserLeveledUp,
			zap.String(attrID, userID.String()))
	}
	return leveledUp, true, nil
}
