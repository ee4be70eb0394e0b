package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// GroupRepository определяет запросы и мутации членства в группах.
type GroupRepository interface {
	Repository[entities.Group]

	ByMember(userID uuid.UUID) []*entities.Group

	ByMemberWhereAdmin(userID uuid.UUID) []*entities.Group

	AddMember(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error)

	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	UpdateAdminStatus(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error)

	// UpdateDetails меняет имя и описание, сохраняя участников; nil, если группы нет.
	UpdateDetails(ctx context.Context, groupID uuid.UUID, name, description string) (*entities.Group, error)
}
