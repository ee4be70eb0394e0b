package dto

import (
	"cmp"
	"slices"
	"time"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

// GroupRequest используется для создания и обновления группы.
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MemberRequest - запрос на добавление участника.
type MemberRequest struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

// AdminStatusRequest - запрос на смену флага администратора.
type AdminStatusRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

// MemberResponse - участник группы.
type MemberResponse struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

// GroupResponse - представление группы.
type GroupResponse struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Members     []MemberResponse `json:"members"`
}

// NewGroupResponse преобразует группу в ответ. Участники упорядочены по ID.
func NewGroupResponse(g *entities.Group) GroupResponse {
	members := make([]MemberResponse, 0, len(g.Members()))
	for id, isAdmin := range g.Members() {
		members = append(members, MemberResponse{UserID: id.String(), IsAdmin: isAdmin})
	}
	slices.SortFunc(members, func(a, b MemberResponse) int { return cmp.Compare(a.UserID, b.UserID) })

	return GroupResponse{
		ID:          g.ID().String(),
		CreatedAt:   g.CreatedAt(),
		Name:        g.Name(),
		Description: g.Description(),
		Members:     members,
	}
}

// NewGroupResponses преобразует список групп.
func NewGroupResponses(groups []*entities.Group) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, NewGroupResponse(g))
	}
	return out
}
