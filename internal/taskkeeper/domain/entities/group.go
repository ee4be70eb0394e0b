package entities

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ошибки домена группы.
var (
	ErrBlankGroupName   = fmt.Errorf("%w: group name cannot be blank", ErrInvalidArgument)
	ErrNoInitialMember  = fmt.Errorf("%w: group requires an initial member", ErrInvalidArgument)
	ErrInvalidMemberKey = fmt.Errorf("%w: member id cannot be empty", ErrInvalidArgument)
)

// Group - группа пользователей. members: ID пользователя -> признак администратора.
type Group struct {
	identity    Identity
	name        string
	description string
	members     map[uuid.UUID]bool
}

// NewGroup создает группу; firstAdmin становится первым участником и администратором.
func NewGroup(name string, firstAdmin uuid.UUID) (*Group, error) {
	if firstAdmin == uuid.Nil {
		return nil, ErrNoInitialMember
	}
	g := &Group{
		identity: newIdentity(),
		members:  map[uuid.UUID]bool{firstAdmin: true},
	}
	if err := g.SetName(name); err != nil {
		return nil, err
	}
	return g, nil
}

// Геттеры возвращают копии полей, состав участников доступен через IsMember и IsAdmin.
func (g *Group) ID() uuid.UUID           { return g.identity.ID }
func (g *Group) CreatedAt() time.Time    { return g.identity.CreatedAt }
func (g *Group) Identity() Identity      { return g.identity }
func (g *Group) Name() string            { return g.name }
func (g *Group) Description() string     { return g.description }
func (g *Group) Equal(other *Group) bool { return other != nil && g.identity.Equal(other.identity) }

// SetName задает непустое название группы.
func (g *Group) SetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrBlankGroupName
	}
	g.name = trimmed
	return nil
}

// SetDescription заменяет описание.
func (g *Group) SetDescription(description string) {
	g.description = description
}

// Members возвращает копию карты участников.
func (g *Group) Members() map[uuid.UUID]bool {
	return maps.Clone(g.members)
}

// IsMember сообщает, состоит ли userID в группе.
func (g *Group) IsMember(userID uuid.UUID) bool {
	_, ok := g.members[userID]
	return ok
}

// IsAdmin сообщает, является ли userID администратором группы.
func (g *Group) IsAdmin(userID uuid.UUID) bool {
	return g.members[userID]
}

// AddMember добавляет участника. Повторное добавление ничего не меняет и возвращает false.
func (g *Group) AddMember(userID uuid.UUID, isAdmin bool) bool {
	if userID == uuid.Nil || g.IsMember(userID) {
		return false
	}
	g.members[userID] = isAdmin
	return true
}

// RemoveMember удаляет участника; false, если его не было.
func (g *Group) RemoveMember(userID uuid.UUID) bool {
	if !g.IsMember(userID) {
		return false
	}
	delete(g.members, userID)
	return true
}

// SetAdmin меняет признак администратора. false для не-участника или
// если флаг уже имеет нужное значение.
func (g *Group) SetAdmin(userID uuid.UUID, isAdmin bool) bool {
	current, ok := g.members[userID]
	if !ok || current == isAdmin {
		return false
	}
	g.members[userID] = isAdmin
	return true
}

// Clone возвращает глубокую копию.
func (g *Group) Clone() *Group {
	c := *g
	c.members = maps.Clone(g.members)
	return &c
}

type groupJSON struct {
	ID          uuid.UUID          `json:"id"`
	CreatedAt   time.Time          `json:"createdAt"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Members     map[uuid.UUID]bool `json:"members"`
}

// MarshalJSON реализует json.Marshaler.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupJSON{
		ID:          g.identity.ID,
		CreatedAt:   g.identity.CreatedAt,
		Name:        g.name,
		Description: g.description,
		Members:     g.members,
	})
}

// UnmarshalJSON восстанавливает группу.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw groupJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	identity, err := restoreIdentity(raw.ID, raw.CreatedAt)
	if err != nil {
		return err
	}

	restored := Group{
		identity:    identity,
		description: raw.Description,
		members:     make(map[uuid.UUID]bool, len(raw.Members)),
	}
	if err := restored.SetName(raw.Name); err != nil {
		return fmt.Errorf("group %s: %w", raw.ID, err)
	}
	for id, isAdmin := range raw.Members {
		if id == uuid.Nil {
			return fmt.Errorf("group %s: %w", raw.ID, ErrInvalidMemberKey)
		}
		restored.members[id] = isAdmin
	}

	*g = restored
	return nil
}
