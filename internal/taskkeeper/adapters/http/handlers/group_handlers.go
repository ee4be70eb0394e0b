package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/taskkeeper/adapters/http/dto"
	"taskkeeper/internal/taskkeeper/adapters/http/middleware"
	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/pkg/logger"
)

const paramGroupID = "id"

// CreateGroup создает группу, автор становится ее первым администратором.
func (h *Handler) CreateGroup(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}

	var req dto.GroupRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	group, err := entities.NewGroup(req.Name, userID)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	group.SetDescription(req.Description)

	created, err := h.facade.AddGroup(requestCtx, group)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewGroupResponse(created))
}

// ListGroups возвращает группы текущего пользователя; admin=true оставляет только
// те, где он администратор.
func (h *Handler) ListGroups(c fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}

	if adminOnly, _ := strconv.ParseBool(c.Query("admin")); adminOnly {
		return c.JSON(dto.NewGroupResponses(h.facade.GroupsByUserWhereAdmin(userID)))
	}
	return c.JSON(dto.NewGroupResponses(h.facade.GroupsByUser(userID)))
}

// GetGroup возвращает группу по ID.
func (h *Handler) GetGroup(c fiber.Ctx) error {
	groupID, ok := paramID(c, paramGroupID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}

	group, ok := h.facade.GetGroup(groupID)
	if !ok {
		return fail(c, fiber.StatusNotFound, ErrorGroupNotFound)
	}
	return c.JSON(dto.NewGroupResponse(group))
}

// UpdateGroup меняет имя и описание группы, не затрагивая участников.
// Доступно администраторам группы.
func (h *Handler) UpdateGroup(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	group, ok := h.adminGroup(c)
	if !ok {
		return nil
	}

	var req dto.GroupRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	updated, err := h.facade.UpdateGroupDetails(requestCtx, group.ID(), req.Name, req.Description)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if updated == nil {
		return fail(c, fiber.StatusNotFound, ErrorGroupNotFound)
	}
	return c.JSON(dto.NewGroupResponse(updated))
}

// DeleteGroup удаляет группу. Доступно администраторам группы.
func (h *Handler) DeleteGroup(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	group, ok := h.adminGroup(c)
	if !ok {
		return nil
	}

	removed, err := h.facade.RemoveGroup(requestCtx, group.ID())
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	if !removed {
		return fail(c, fiber.StatusNotFound, ErrorGroupNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMember добавляет пользователя в группу. Доступно администраторам группы.
func (h *Handler) AddMember(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	group, ok := h.adminGroup(c)
	if !ok {
		return nil
	}

	var req dto.MemberRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}
	if _, ok := h.facade.GetUser(memberID); !ok {
		return fail(c, fiber.StatusNotFound, ErrorUserNotFound)
	}

	changed, err := h.facade.AddMemberToGroup(requestCtx, group.ID(), memberID, req.IsAdmin)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	return c.JSON(dto.ChangedResponse{Changed: changed})
}

// UpdateMember меняет флаг администратора участника. Доступно администраторам группы.
func (h *Handler) UpdateMember(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	group, ok := h.adminGroup(c)
	if !ok {
		return nil
	}
	memberID, ok := paramID(c, paramUserID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}

	var req dto.AdminStatusRequest
	if err := c.Bind().JSON(&req); err != nil || req.IsAdmin == nil {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	changed, err := h.facade.UpdateMemberAdminStatus(requestCtx, group.ID(), memberID, *req.IsAdmin)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	return c.JSON(dto.ChangedResponse{Changed: changed})
}

// RemoveMember исключает участника. Администратор может исключить любого,
// остальные участники - только себя.
func (h *Handler) RemoveMember(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	callerID, ok := currentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
	}
	groupID, ok := paramID(c, paramGroupID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}
	memberID, ok := paramID(c, paramUserID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, ErrorInvalidID)
	}

	group, ok := h.facade.GetGroup(groupID)
	if !ok {
		return fail(c, fiber.StatusNotFound, ErrorGroupNotFound)
	}
	if memberID != callerID && !group.IsAdmin(callerID) {
		return fail(c, fiber.StatusForbidden, ErrorNotGroupAdmin)
	}

	changed, err := h.facade.RemoveMemberFromGroup(requestCtx, groupID, memberID)
	if err != nil {
		return writeError(requestCtx, c, err)
	}
	return c.JSON(dto.ChangedResponse{Changed: changed})
}

// adminGroup загружает группу из пути и проверяет, что текущий пользователь ее администратор.
// При false ответ уже записан.
func (h *Handler) adminGroup(c fiber.Ctx) (*entities.Group, bool) {
	callerID, ok := currentUser(c)
	if !ok {
		_ = fail(c, fiber.StatusUnauthorized, ErrorUnauthenticated)
		return nil, false
	}
	groupID, ok := paramID(c, paramGroupID)
	if !ok {
		_ = fail(c, fiber.StatusBadRequest, ErrorInvalidID)
		return nil, false
	}

	group, ok := h.facade.GetGroup(groupID)
	if !ok {
		_ = fail(c, fiber.StatusNotFound, ErrorGroupNotFound)
		return nil, false
	}
	if !group.IsAdmin(callerID) {
		_ = fail(c, fiber.StatusForbidden, ErrorNotGroupAdmin)
		return nil, false
	}
	return group, true
}
