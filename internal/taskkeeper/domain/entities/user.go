package entities

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Ошибки домена пользователя.
var (
	ErrInvalidUsername   = fmt.Errorf("%w: username must be 3-20 characters of letters, digits, '_' or '-'", ErrInvalidArgument)
	ErrEmptyPasswordHash = fmt.Errorf("%w: password hash cannot be empty", ErrInvalidArgument)
	ErrUsernameTaken     = fmt.Errorf("%w: username is already taken", ErrInvalidArgument)
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// ValidateUsername проверяет формат имени пользователя.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// User представляет пользователя приложения. Хранит только хэш пароля.
type User struct {
	identity     Identity
	username     string
	passwordHash string
	leveling     Leveling
}

// NewUser создает пользователя с новой идентичностью и начальным уровнем.
func NewUser(username, passwordHash string) (*User, error) {
	u := &User{
		identity: newIdentity(),
		leveling: NewLeveling(),
	}
	if err := u.SetUsername(username); err != nil {
		return nil, err
	}
	if err := u.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}
	return u, nil
}

// Геттеры пользователя. Leveling возвращается по значению.
func (u *User) ID() uuid.UUID          { return u.identity.ID }
func (u *User) CreatedAt() time.Time   { return u.identity.CreatedAt }
func (u *User) Identity() Identity     { return u.identity }
func (u *User) Username() string       { return u.username }
func (u *User) PasswordHash() string   { return u.passwordHash }
func (u *User) Leveling() Leveling     { return u.leveling }
func (u *User) Equal(other *User) bool { return other != nil && u.identity.Equal(other.identity) }

// SetUsername меняет имя пользователя. Уникальность проверяет репозиторий.
func (u *User) SetUsername(username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	u.username = username
	return nil
}

// SetPasswordHash меняет хэш пароля.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return ErrEmptyPasswordHash
	}
	u.passwordHash = hash
	return nil
}

// CompleteTask начисляет опыт за выполненную задачу. См. Leveling.CompleteTask.
func (u *User) CompleteTask() bool {
	return u.leveling.CompleteTask()
}

// Clone возвращает независимую копию.
func (u *User) Clone() *User {
	c := *u
	return &c
}

type userJSON struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Leveling     Leveling  `json:"leveling"`
}

// MarshalJSON реализует json.Marshaler.
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:           u.identity.ID,
		CreatedAt:    u.identity.CreatedAt,
		Username:     u.username,
		PasswordHash: u.passwordHash,
		Leveling:     u.leveling,
	})
}

// UnmarshalJSON восстанавливает пользователя, проверяя все поля.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	identity, err := restoreIdentity(raw.ID, raw.CreatedAt)
	if err != nil {
		return err
	}
	if err := raw.Leveling.Validate(); err != nil {
		return fmt.Errorf("user %s: %w", raw.ID, err)
	}

	restored := User{identity: identity, leveling: raw.Leveling}
	if err := restored.SetUsername(raw.Username); err != nil {
		return fmt.Errorf("user %s: %w", raw.ID, err)
	}
	if err := restored.SetPasswordHash(raw.PasswordHash); err != nil {
		return fmt.Errorf("user %s: %w", raw.ID, err)
	}

	*u = restored
	return nil
}
