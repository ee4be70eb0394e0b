package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskkeeper/internal/taskkeeper/adapters/jsonstore"
	"taskkeeper/internal/taskkeeper/app"
	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/internal/taskkeeper/domain/services"
	"taskkeeper/pkg/logger"
)

var errHashingBackend = errors.New("hashing backend unavailable")

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type testEnv struct {
	ctx       context.Context
	root      string
	facade    *app.FacadeImpl
	passwords *mockPasswordService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	ctx := logger.NewContext(context.Background(), testLogger)

	root := t.TempDir()
	resolver, err := jsonstore.NewPathResolver(root, jsonstore.EnvTest)
	require.NoError(t, err)
	factory := jsonstore.NewRepositoryFactory(resolver, jsonstore.DuplicateOverwrite)

	passwords := &mockPasswordService{}
	passwords.On("Hash", mock.Anything, mock.AnythingOfType("string")).
		Return("hashed", nil).Maybe()

	users, err := factory.UserRepository(ctx, passwords)
	require.NoError(t, err)
	tasks, err := factory.TaskRepository(ctx)
	require.NoError(t, err)
	groups, err := factory.GroupRepository(ctx)
	require.NoError(t, err)

	return &testEnv{
		ctx:       ctx,
		root:      root,
		facade:    app.NewFacade(users, tasks, groups, passwords),
		passwords: passwords,
	}
}

func (e *testEnv) register(t *testing.T, username string) *entities.User {
	t.Helper()
	user, err := e.facade.RegisterUser(e.ctx, username, "StrongPass1")
	require.NoError(t, err)
	return user
}

func (e *testEnv) addTask(t *testing.T, title string) *entities.Task {
	t.Helper()
	task, err := entities.NewTask(title)
	require.NoError(t, err)
	created, err := e.facade.AddTask(e.ctx, task)
	require.NoError(t, err)
	return created
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "alice")
	assert.Equal(t, "alice", user.Username())
	assert.Equal(t, "hashed", user.PasswordHash())

	found, ok := env.facade.FindUserByUsername("alice")
	require.True(t, ok)
	assert.True(t, user.Equal(found))

	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "duplicate username", username: "alice", wantErr: entities.ErrUsernameTaken},
		{name: "too short", username: "al", wantErr: entities.ErrInvalidUsername},
		{name: "bad characters", username: "al ice", wantErr: entities.ErrInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.facade.RegisterUser(env.ctx, tt.username, "StrongPass1")
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, entities.ErrInvalidArgument)
		})
	}
}

func TestRegisterUser_PasswordErrors(t *testing.T) {
	tests := []struct {
		name      string
		hashErr   error
		wantErr   error
		wantInval bool
	}{
		{name: "weak password", hashErr: services.ErrPasswordTooWeak, wantErr: services.ErrInvalidPassword, wantInval: true},
		{name: "hashing failure", hashErr: errHashingBackend, wantErr: errHashingBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.passwords.ExpectedCalls = nil
			env.passwords.On("Hash", mock.Anything, "password").Return("", tt.hashErr).Once()

			user, err := env.facade.RegisterUser(env.ctx, "alice", "password")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantInval, errors.Is(err, entities.ErrInvalidArgument))
			assert.Nil(t, user)

			_, ok := env.facade.FindUserByUsername("alice")
			assert.False(t, ok)
			env.passwords.AssertExpectations(t)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	env.passwords.On("Verify", mock.Anything, "StrongPass1", "hashed").Return(true, nil)
	env.passwords.On("Verify", mock.Anything, "WrongPass1", "hashed").Return(false, nil)

	user, ok, err := env.facade.Authenticate(env.ctx, "alice", "StrongPass1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, alice.Equal(user))

	user, ok, err = env.facade.Authenticate(env.ctx, "alice", "WrongPass1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, user)

	_, ok, err = env.facade.Authenticate(env.ctx, "nobody", "StrongPass1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	require.NoError(t, alice.SetUsername("alice_w"))
	updated, err := env.facade.UpdateUser(env.ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "alice_w", updated.Username())

	ghost, err := entities.NewUser("ghost", "hashed")
	require.NoError(t, err)
	updated, err = env.facade.UpdateUser(env.ctx, ghost)
	require.NoError(t, err)
	assert.Nil(t, updated)

	added, err := env.facade.AddUser(env.ctx, ghost)
	require.NoError(t, err)
	assert.True(t, ghost.Equal(added))
}

func TestAssignTaskToUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	task := env.addTask(t, "Buy milk")

	assigned, err := env.facade.AssignTaskToUser(env.ctx, task.ID(), alice.ID())
	require.NoError(t, err)
	assert.True(t, assigned)

	assigned, err = env.facade.AssignTaskToUser(env.ctx, task.ID(), alice.ID())
	require.NoError(t, err)
	assert.False(t, assigned)

	assigned, err = env.facade.AssignTaskToUser(env.ctx, task.ID(), uuid.New())
	require.NoError(t, err)
	assert.False(t, assigned, "unknown user")

	assert.Len(t, env.facade.TasksByUser(alice.ID()), 1)
	assert.Len(t, env.facade.ActiveTasksByUser(alice.ID()), 1)

	unassigned, err := env.facade.UnassignTaskFromUser(env.ctx, task.ID(), alice.ID())
	require.NoError(t, err)
	assert.True(t, unassigned)
	assert.Empty(t, env.facade.TasksByUser(alice.ID()))
}

func TestCompleteTask(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	// bob уже в одном шаге от нового уровня.
	warmup := env.addTask(t, "warm up")
	_, err := env.facade.AssignTaskToUser(env.ctx, warmup.ID(), bob.ID())
	require.NoError(t, err)
	completion, err := env.facade.CompleteTask(env.ctx, warmup.ID())
	require.NoError(t, err)
	require.NotNil(t, completion)
	assert.True(t, completion.Closed)
	assert.Empty(t, completion.LeveledUp)

	task := env.addTask(t, "Buy milk")
	for _, u := range []*entities.User{alice, bob} {
		_, err := env.facade.AssignTaskToUser(env.ctx, task.ID(), u.ID())
		require.NoError(t, err)
	}

	completion, err = env.facade.CompleteTask(env.ctx, task.ID())
	require.NoError(t, err)
	require.NotNil(t, completion)
	assert.True(t, completion.Closed)
	assert.Equal(t, []uuid.UUID{bob.ID()}, completion.LeveledUp)

	stored, _ := env.facade.GetTask(task.ID())
	assert.Equal(t, entities.StatusClosed, stored.Status())
	assert.Empty(t, env.facade.ActiveTasksByUser(alice.ID()))
	assert.Len(t, env.facade.TasksByStatus(entities.StatusClosed), 2)

	aliceNow, _ := env.facade.GetUser(alice.ID())
	assert.Equal(t, 5, aliceNow.Leveling().TotalExperience)
	bobNow, _ := env.facade.GetUser(bob.ID())
	assert.Equal(t, 1, bobNow.Leveling().CurrentLevel)

	t.Run("already closed", func(t *testing.T) {
		again, err := env.facade.CompleteTask(env.ctx, task.ID())
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.False(t, again.Closed)

		aliceNow, _ := env.facade.GetUser(alice.ID())
		assert.Equal(t, 5, aliceNow.Leveling().TotalExperience)
	})

	t.Run("missing task", func(t *testing.T) {
		missing, err := env.facade.CompleteTask(env.ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestTaskQueries(t *testing.T) {
	env := newTestEnv(t)

	urgent := env.addTask(t, "urgent")
	require.NoError(t, urgent.SetPriority(entities.PriorityHigh))
	urgent.SetDeadline(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_, err := env.facade.UpdateTask(env.ctx, urgent)
	require.NoError(t, err)

	env.addTask(t, "someday")

	high := env.facade.TasksByPriority(entities.PriorityHigh)
	require.Len(t, high, 1)
	assert.True(t, urgent.Equal(high[0]))

	before := env.facade.TasksBeforeDeadline(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, before, 1)
	assert.True(t, urgent.Equal(before[0]))

	assert.Len(t, env.facade.TasksByStatus(entities.StatusOpen), 2)

	removed, err := env.facade.RemoveTask(env.ctx, urgent.ID())
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok := env.facade.GetTask(urgent.ID())
	assert.False(t, ok)
}

func TestGroupMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	group, err := entities.NewGroup("Chores", alice.ID())
	require.NoError(t, err)
	_, err = env.facade.AddGroup(env.ctx, group)
	require.NoError(t, err)

	added, err := env.facade.AddMemberToGroup(env.ctx, group.ID(), bob.ID(), false)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = env.facade.AddMemberToGroup(env.ctx, group.ID(), uuid.New(), false)
	require.NoError(t, err)
	assert.False(t, added, "unknown user")

	assert.Len(t, env.facade.GroupsByUser(bob.ID()), 1)
	assert.Empty(t, env.facade.GroupsByUserWhereAdmin(bob.ID()))

	promoted, err := env.facade.UpdateMemberAdminStatus(env.ctx, group.ID(), bob.ID(), true)
	require.NoError(t, err)
	assert.True(t, promoted)
	assert.Len(t, env.facade.GroupsByUserWhereAdmin(bob.ID()), 1)

	removed, err := env.facade.RemoveMemberFromGroup(env.ctx, group.ID(), bob.ID())
	require.NoError(t, err)
	assert.True(t, removed)

	stored, ok := env.facade.GetGroup(group.ID())
	require.True(t, ok)
	require.NoError(t, stored.SetName("Household"))
	updated, err := env.facade.UpdateGroup(env.ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "Household", updated.Name())

	removedGroup, err := env.facade.RemoveGroup(env.ctx, group.ID())
	require.NoError(t, err)
	assert.True(t, removedGroup)
	assert.Empty(t, env.facade.GroupsByUser(alice.ID()))
}

func TestRemoveUser_Cascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	task := env.addTask(t, "Buy milk")
	_, err := env.facade.AssignTaskToUser(env.ctx, task.ID(), bob.ID())
	require.NoError(t, err)

	group, err := entities.NewGroup("Chores", alice.ID())
	require.NoError(t, err)
	_, err = env.facade.AddGroup(env.ctx, group)
	require.NoError(t, err)
	_, err = env.facade.AddMemberToGroup(env.ctx, group.ID(), bob.ID(), true)
	require.NoError(t, err)

	removed, err := env.facade.RemoveUser(env.ctx, bob.ID())
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := env.facade.GetUser(bob.ID())
	assert.False(t, ok)

	storedTask, _ := env.facade.GetTask(task.ID())
	assert.False(t, storedTask.IsAssigned(bob.ID()))

	storedGroup, _ := env.facade.GetGroup(group.ID())
	assert.False(t, storedGroup.IsMember(bob.ID()))
	assert.True(t, storedGroup.IsAdmin(alice.ID()))

	removed, err = env.facade.RemoveUser(env.ctx, bob.ID())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFlush(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	require.NoError(t, env.facade.Flush(env.ctx))

	for _, kind := range []string{jsonstore.KindUser, jsonstore.KindTask, jsonstore.KindGroup} {
		path := filepath.Join(env.root, "testdata", "data", "json", kind+".json")
		data, err := os.ReadFile(path)
		require.NoError(t, err, kind)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "["), kind)
	}

	userFile := filepath.Join(env.root, "testdata", "data", "json", "User.json")
	data, err := os.ReadFile(userFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"username": "alice"`)
}

func TestUpdateGroupDetailsKeepsConcurrentMembershipChanges(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")

	group, err := entities.NewGroup("Chores", alice.ID())
	require.NoError(t, err)
	group, err = env.facade.AddGroup(env.ctx, group)
	require.NoError(t, err)

	added, err := env.facade.AddMemberToGroup(env.ctx, group.ID(), mallory.ID(), true)
	require.NoError(t, err)
	require.True(t, added)

	stale, ok := env.facade.GetGroup(group.ID())
	require.True(t, ok)
	require.True(t, stale.IsAdmin(mallory.ID()))

	removed, err := env.facade.RemoveMemberFromGroup(env.ctx, group.ID(), mallory.ID())
	require.NoError(t, err)
	require.True(t, removed)

	updated, err := env.facade.UpdateGroupDetails(env.ctx, group.ID(), "Household", "weekly")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Household", updated.Name())
	assert.Equal(t, "weekly", updated.Description())
	assert.False(t, updated.IsMember(mallory.ID()))

	stored, ok := env.facade.GetGroup(group.ID())
	require.True(t, ok)
	assert.False(t, stored.IsMember(mallory.ID()))
	assert.True(t, stored.IsAdmin(alice.ID()))

	_, err = env.facade.UpdateGroupDetails(env.ctx, group.ID(), "  ", "")
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
	stored, _ = env.facade.GetGroup(group.ID())
	assert.Equal(t, "Household", stored.Name())

	missing, err := env.facade.UpdateGroupDetails(env.ctx, uuid.New(), "Ghost", "")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateTaskFieldsKeepsConcurrentAssignments(t *testing.T) {
	env := newTestEnv(t)
	bob := env.register(t, "bob")
	task := env.addTask(t, "Buy milk")

	assigned, err := env.facade.AssignTaskToUser(env.ctx, task.ID(), bob.ID())
	require.NoError(t, err)
	require.True(t, assigned)

	unassigned, err := env.facade.UnassignTaskFromUser(env.ctx, task.ID(), bob.ID())
	require.NoError(t, err)
	require.True(t, unassigned)

	updated, err := env.facade.UpdateTaskFields(env.ctx, task.ID(), func(candidate *entities.Task) error {
		return candidate.SetPriority(entities.PriorityHigh)
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, entities.PriorityHigh, updated.Priority())
	assert.Empty(t, updated.AssignedUsers())

	errRejected := errors.New("rejected")
	_, err = env.facade.UpdateTaskFields(env.ctx, task.ID(), func(candidate *entities.Task) error {
		require.NoError(t, candidate.SetTitle("Buy bread"))
		return errRejected
	})
	assert.ErrorIs(t, err, errRejected)
	stored, ok := env.facade.GetTask(task.ID())
	require.True(t, ok)
	assert.Equal(t, "Buy milk", stored.Title())

	missing, err := env.facade.UpdateTaskFields(env.ctx, uuid.New(), func(*entities.Task) error { return nil })
	require.NoError(t, err)
	assert.Nil(t, missing)
}
