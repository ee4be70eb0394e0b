package jsonstore

import (
	"context"

	"github.com/google/uuid"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// KindGroup - имя файла групп.
const KindGroup = "Group"

// GroupRepository хранит группы и их участников.
type GroupRepository struct {
	*Store[entities.Group]
}

// NewGroupRepository открывает хранилище групп.
func NewGroupRepository(ctx context.Context, resolver *PathResolver, duplicates DuplicatePolicy) (*GroupRepository, error) {
	store, err := NewStore(ctx, resolver, Options[entities.Group]{
		Kind:       KindGroup,
		IDOf:       (*entities.Group).ID,
		Clone:      (*entities.Group).Clone,
		Compare:    compareByCreation[*entities.Group],
		Duplicates: duplicates,
	})
	if err != nil {
		return nil, err
	}
	return &GroupRepository{Store: store}, nil
}

// ByMember возвращает группы, где состоит userID.
func (r *GroupRepository) ByMember(userID uuid.UUID) []*entities.Group {
	return r.Filter(func(g *entities.Group) bool { return g.IsMember(userID) })
}

// ByMemberWhereAdmin возвращает группы, где userID администратор.
func (r *GroupRepository) ByMemberWhereAdmin(userID uuid.UUID) []*entities.Group {
	return r.Filter(func(g *entities.Group) bool { return g.IsAdmin(userID) })
}

// AddMember добавляет участника. false, если группы нет или пользователь уже в ней.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error) {
	changed, _, err := r.Mutate(ctx, groupID, func(g *entities.Group) (bool, error) {
		return g.AddMember(userID, isAdmin), nil
	})
	return changed, err
}

// RemoveMember исключает userID из группы. Возвращает false, если группы нет
// или пользователь в ней не состоял.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	changed, _, err := r.Mutate(ctx, groupID, func(g *entities.Group) (bool, error) {
		return g.RemoveMember(userID), nil
	})
	return changed, err
}

// UpdateAdminStatus меняет флаг администратора участника. false, если он не участник
// или флаг уже такой.
func (r *GroupRepository) UpdateAdminStatus(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error) {
	changed, _, err := r.Mutate(ctx, groupID, func(g *entities.Group) (bool, error) {
		return g.SetAdmin(userID, isAdmin), nil
	})
	return changed, err
}

// UpdateDetails меняет имя и описание группы, не трогая состав участников.
// nil, если группы нет.
func (r *GroupRepository) UpdateDetails(ctx context.Context, groupID uuid.UUID, name, description string) (*entities.Group, error) {
	var updated *entities.Group
	_, found, err := r.Mutate(ctx, groupID, func(g *entities.Group) (bool, error) {
		if err := g.SetName(name); err != nil {
			return false, err
		}
		g.SetDescription(description)
		updated = g.Clone()
		return true, nil
	})
	if err != nil || !found {
		return nil, err
	}
	return updated, nil
}
