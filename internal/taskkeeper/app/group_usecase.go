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
	methodAddMember = "AddMemberToGroup"

	msgAddUnknownMember = "membership for non-existent user ignored"

	errCtxCreatingGroup  = "creating group"
	errCtxUpdatingGroup  = "updating group"
	errCtxRemovingGroup  = "removing group"
	errCtxAddingMember   = "adding group member"
	errCtxRemovingMember = "removing group member"
	errCtxUpdatingAdmin  = "updating admin status"
)

// AddGroup сохраняет новую группу.
func (f *FacadeImpl) AddGroup(ctx context.Context, group *entities.Group) (*entities.Group, error) {
	created, err := f.groups.Add(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingGroup, err)
	}
	return created, nil
}

// UpdateGroup заменяет существующую группу; nil, если ее нет.
func (f *FacadeImpl) UpdateGroup(ctx context.Context, group *entities.Group) (*entities.Group, error) {
	updated, err := f.groups.Update(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingGroup, err)
	}
	return updated, nil
}

// UpdateGroupDetails меняет имя и описание группы, не затрагивая участников.
// nil, если группы нет.
func (f *FacadeImpl) UpdateGroupDetails(ctx context.Context, groupID uuid.UUID, name, description string) (*entities.Group, error) {
	updated, err := f.groups.UpdateDetails(ctx, groupID, name, description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingGroup, err)
	}
	return updated, nil
}

// RemoveGroup удаляет группу. Возвращает false, если группы не было.
func (f *FacadeImpl) RemoveGroup(ctx context.Context, groupID uuid.UUID) (bool, error) {
	removed, err := f.groups.Remove(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxRemovingGroup, err)
	}
	return removed, nil
}

// GetGroup возвращает копию группы.
func (f *FacadeImpl) GetGroup(groupID uuid.UUID) (*entities.Group, bool) {
	return f.groups.GetByID(groupID)
}

// GroupsByUser возвращает группы, где состоит userID.
func (f *FacadeImpl) GroupsByUser(userID uuid.UUID) []*entities.Group {
	return f.groups.ByMember(userID)
}

// GroupsByUserWhereAdmin возвращает группы, где userID администратор.
func (f *FacadeImpl) GroupsByUserWhereAdmin(userID uuid.UUID) []*entities.Group {
	return f.groups.ByMemberWhereAdmin(userID)
}

// AddMemberToGroup добавляет существующего пользователя в группу.
// false, если группы или пользователя нет либо он уже участник.
func (f *FacadeImpl) AddMemberToGroup(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error) {
	if _, ok := f.users.GetByID(userID); !ok {
		logger.Log(ctx).Debug(ctx, msgAddUnknownMember,
			zap.String(logger.Method, methodAddMember),
			zap.String("userID", userID.String()))
		return false, nil
	}

	changed, err := f.groups.AddMember(ctx, groupID, userID, isAdmin)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxAddingMember, err)
	}
	return changed, nil
}

// RemoveMemberFromGroup исключает userID из группы.
func (f *FacadeImpl) RemoveMemberFromGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	changed, err := f.groups.RemoveMember(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxRemovingMember, err)
	}
	return changed, nil
}

func (f *FacadeImpl) UpdateMemberAdminStatus(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) (bool, error) {
	changed, err := f.groups.UpdateAdminStatus(ctx, groupID, userID, isAdmin)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxUpdatingAdmin, err)
	}
	return changed, nil
}
