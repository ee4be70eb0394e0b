package jsonstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskkeeper/internal/taskkeeper/adapters/jsonstore"
	"taskkeeper/internal/taskkeeper/domain/entities"
	"taskkeeper/internal/taskkeeper/domain/services"
	"taskkeeper/internal/taskkeeper/ports/repositories"
)

type fixture struct {
	ctx    context.Context
	users  repositories.UserRepository
	tasks  repositories.TaskRepository
	groups repositories.GroupRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := testContext(t)
	factory := jsonstore.NewRepositoryFactory(testResolver(t), jsonstore.DuplicateOverwrite)

	users, err := factory.UserRepository(ctx, hashedPasswordService())
	require.NoError(t, err)
	tasks, err := factory.TaskRepository(ctx)
	require.NoError(t, err)
	groups, err := factory.GroupRepository(ctx)
	require.NoError(t, err)

	return &fixture{ctx: ctx, users: users, tasks: tasks, groups: groups}
}

func (f *fixture) addUser(t *testing.T, username, password string) *entities.User {
	t.Helper()
	user, err := entities.NewUser(username, "hashed:"+password)
	require.NoError(t, err)
	added, err := f.users.Add(f.ctx, user)
	require.NoError(t, err)
	return added
}

func TestNewUserRepository_RequiresPasswordService(t *testing.T) {
	_, err := jsonstore.NewUserRepository(testContext(t), testResolver(t), jsonstore.DuplicateOverwrite, nil)
	require.ErrorIs(t, err, jsonstore.ErrConfiguration)
}

func TestUserRepository_UsernameUniqueness(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")

	t.Run("add with taken username", func(t *testing.T) {
		other, err := entities.NewUser("alice", "hashed:x")
		require.NoError(t, err)

		_, err = f.users.Add(f.ctx, other)
		require.ErrorIs(t, err, entities.ErrUsernameTaken)
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
		assert.Len(t, f.users.GetAll(), 1)
	})

	t.Run("username is case sensitive", func(t *testing.T) {
		other, err := entities.NewUser("Alice", "hashed:x")
		require.NoError(t, err)

		_, err = f.users.Add(f.ctx, other)
		require.NoError(t, err)
	})

	t.Run("rename onto taken username", func(t *testing.T) {
		bob := f.addUser(t, "bob", "StrongPass2")
		require.NoError(t, bob.SetUsername("alice"))

		_, err := f.users.Update(f.ctx, bob)
		require.ErrorIs(t, err, entities.ErrUsernameTaken)

		stored, ok := f.users.GetByID(bob.ID())
		require.True(t, ok)
		assert.Equal(t, "bob", stored.Username())
	})

	t.Run("update keeping own username", func(t *testing.T) {
		require.NoError(t, alice.SetPasswordHash("hashed:NewPass1"))
		updated, err := f.users.Update(f.ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "hashed:NewPass1", updated.PasswordHash())
	})
}

func TestUserRepository_FindByUsername(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")

	found, ok := f.users.FindByUsername("alice")
	require.True(t, ok)
	assert.True(t, alice.Equal(found))

	_, ok = f.users.FindByUsername("ALICE")
	assert.False(t, ok)
}

func TestUserRepository_Authenticate(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{name: "valid credentials", username: "alice", password: "StrongPass1", wantOK: true},
		{name: "wrong password", username: "alice", password: "WrongPass1"},
		{name: "unknown user", username: "mallory", password: "StrongPass1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok, err := f.users.Authenticate(f.ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, alice.Equal(user))
			} else {
				assert.Nil(t, user)
			}
		})
	}
}

func TestUserRepository_AuthenticateErrors(t *testing.T) {
	ctx := testContext(t)
	resolver := testResolver(t)

	tests := []struct {
		name      string
		verifyErr error
		wantErr   bool
	}{
		{name: "malformed hash is a mismatch", verifyErr: services.ErrInvalidPassword},
		{name: "other failures propagate", verifyErr: assert.AnError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passwords := &mockPasswordService{}
			passwords.On("Verify", mock.Anything, "StrongPass1", "hashed:StrongPass1").
				Return(false, tt.verifyErr).Once()

			users, err := jsonstore.NewUserRepository(ctx, resolver, jsonstore.DuplicateOverwrite, passwords)
			require.NoError(t, err)
			if _, ok := users.FindByUsername("alice"); !ok {
				user, err := entities.NewUser("alice", "hashed:StrongPass1")
				require.NoError(t, err)
				_, err = users.Add(ctx, user)
				require.NoError(t, err)
			}

			user, ok, err := users.Authenticate(ctx, "alice", "StrongPass1")
			assert.Nil(t, user)
			assert.False(t, ok)
			if tt.wantErr {
				require.ErrorIs(t, err, assert.AnError)
			} else {
				require.NoError(t, err)
			}
			passwords.AssertExpectations(t)
		})
	}
}

func TestUserRepository_CompleteTask(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")

	leveledUp, found, err := f.users.CompleteTask(f.ctx, alice.ID())
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, leveledUp)

	leveledUp, found, err = f.users.CompleteTask(f.ctx, alice.ID())
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, leveledUp)

	stored, _ := f.users.GetByID(alice.ID())
	leveling := stored.Leveling()
	assert.Equal(t, 1, leveling.CurrentLevel)
	assert.Equal(t, 0, leveling.CurrentExperience)
	assert.Equal(t, 11, leveling.ExperienceThreshold)
	assert.Equal(t, 10, leveling.TotalExperience)
	assert.Equal(t, 2, leveling.CompletedTaskCount)

	_, found, err = f.users.CompleteTask(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTaskRepository_BuyMilkScenario(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")

	task, err := entities.NewTask("Buy milk")
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityNone, task.Priority())
	assert.Equal(t, entities.StatusOpen, task.Status())
	_, hasDeadline := task.Deadline()
	assert.False(t, hasDeadline)

	_, err = f.tasks.Add(f.ctx, task)
	require.NoError(t, err)

	assigned, err := f.tasks.AssignUser(f.ctx, task.ID(), alice.ID())
	require.NoError(t, err)
	assert.True(t, assigned)

	assigned, err = f.tasks.AssignUser(f.ctx, task.ID(), alice.ID())
	require.NoError(t, err)
	assert.False(t, assigned)

	byUser := f.tasks.ByAssignedUser(alice.ID())
	require.Len(t, byUser, 1)
	assert.True(t, task.Equal(byUser[0]))

	active := f.tasks.ActiveByAssignedUser(alice.ID())
	require.Len(t, active, 1)

	closed, err := f.tasks.SetStatus(f.ctx, task.ID(), entities.StatusClosed)
	require.NoError(t, err)
	assert.True(t, closed)

	assert.Empty(t, f.tasks.ActiveByAssignedUser(alice.ID()))
	assert.Len(t, f.tasks.ByAssignedUser(alice.ID()), 1)

	closed, err = f.tasks.SetStatus(f.ctx, task.ID(), entities.StatusClosed)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestTaskRepository_Queries(t *testing.T) {
	f := newFixture(t)

	newTask := func(title string, priority entities.Priority, deadline string) *entities.Task {
		task, err := entities.NewTask(title)
		require.NoError(t, err)
		require.NoError(t, task.SetPriority(priority))
		if deadline != "" {
			d, err := entities.ParseDate(deadline)
			require.NoError(t, err)
			task.SetDeadline(d)
		}
		added, err := f.tasks.Add(f.ctx, task)
		require.NoError(t, err)
		return added
	}

	early := newTask("early", entities.PriorityHigh, "2024-05-01")
	edge := newTask("edge", entities.PriorityLow, "2024-05-10")
	undated := newTask("undated", entities.PriorityHigh, "")

	cutoff := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	before := f.tasks.BeforeDeadline(cutoff)
	require.Len(t, before, 1)
	assert.True(t, early.Equal(before[0]))

	high := f.tasks.ByPriority(entities.PriorityHigh)
	require.Len(t, high, 2)
	assert.True(t, early.Equal(high[0]), "results are ordered by creation")
	assert.True(t, undated.Equal(high[1]))

	_, err := f.tasks.SetStatus(f.ctx, edge.ID(), entities.StatusPostponed)
	require.NoError(t, err)
	postponed := f.tasks.ByStatus(entities.StatusPostponed)
	require.Len(t, postponed, 1)
	assert.True(t, edge.Equal(postponed[0]))

	_, err = f.tasks.SetStatus(f.ctx, edge.ID(), "DONE")
	require.ErrorIs(t, err, entities.ErrInvalidStatus)

	changed, err := f.tasks.UnassignUser(f.ctx, early.ID(), uuid.New())
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = f.tasks.AssignUser(f.ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, changed, "missing task")
}

func TestGroupRepository_ChoresScenario(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")
	bob := f.addUser(t, "bob", "StrongPass2")

	group, err := entities.NewGroup("Chores", alice.ID())
	require.NoError(t, err)
	_, err = f.groups.Add(f.ctx, group)
	require.NoError(t, err)

	added, err := f.groups.AddMember(f.ctx, group.ID(), bob.ID(), false)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.groups.AddMember(f.ctx, group.ID(), bob.ID(), true)
	require.NoError(t, err)
	assert.False(t, added, "adding an existing member is a no-op")

	byMember := f.groups.ByMember(bob.ID())
	require.Len(t, byMember, 1)
	assert.True(t, group.Equal(byMember[0]))
	assert.Empty(t, f.groups.ByMemberWhereAdmin(bob.ID()))

	promoted, err := f.groups.UpdateAdminStatus(f.ctx, group.ID(), bob.ID(), true)
	require.NoError(t, err)
	assert.True(t, promoted)

	admin := f.groups.ByMemberWhereAdmin(bob.ID())
	require.Len(t, admin, 1)
	assert.True(t, group.Equal(admin[0]))

	promoted, err = f.groups.UpdateAdminStatus(f.ctx, group.ID(), bob.ID(), true)
	require.NoError(t, err)
	assert.False(t, promoted)

	removed, err := f.groups.RemoveMember(f.ctx, group.ID(), bob.ID())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, f.groups.ByMember(bob.ID()))

	removed, err = f.groups.RemoveMember(f.ctx, group.ID(), bob.ID())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepositories_PersistAcrossReopen(t *testing.T) {
	ctx := testContext(t)
	resolver := testResolver(t)
	factory := jsonstore.NewRepositoryFactory(resolver, jsonstore.DuplicateReject)

	users, err := factory.UserRepository(ctx, hashedPasswordService())
	require.NoError(t, err)
	groups, err := factory.GroupRepository(ctx)
	require.NoError(t, err)

	user, err := entities.NewUser("alice", "hashed:StrongPass1")
	require.NoError(t, err)
	_, err = users.Add(ctx, user)
	require.NoError(t, err)

	_, err = users.Add(ctx, user)
	require.ErrorIs(t, err, jsonstore.ErrDuplicateID)

	group, err := entities.NewGroup("Chores", user.ID())
	require.NoError(t, err)
	group.SetDescription("weekly")
	_, err = groups.Add(ctx, group)
	require.NoError(t, err)

	reopened, err := factory.GroupRepository(ctx)
	require.NoError(t, err)
	stored, ok := reopened.GetByID(group.ID())
	require.True(t, ok)
	assert.Equal(t, "weekly", stored.Description())
	assert.True(t, stored.IsAdmin(user.ID()))
	assert.True(t, group.CreatedAt().Equal(stored.CreatedAt()))
}

func TestTaskRepository_UpdateFields(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")

	task, err := entities.NewTask("Write report")
	require.NoError(t, err)
	_, err = f.tasks.Add(f.ctx, task)
	require.NoError(t, err)

	// Копия, прочитанная до назначения исполнителя.
	stale, ok := f.tasks.GetByID(task.ID())
	require.True(t, ok)
	_, err = f.tasks.AssignUser(f.ctx, task.ID(), alice.ID())
	require.NoError(t, err)

	updated, err := f.tasks.UpdateFields(f.ctx, task.ID(), func(current *entities.Task) error {
		return current.SetPriority(entities.PriorityHigh)
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, entities.PriorityHigh, updated.Priority())
	assert.True(t, updated.IsAssigned(alice.ID()), "assignment made after the read survives")
	assert.False(t, stale.IsAssigned(alice.ID()))

	t.Run("apply error leaves task unchanged", func(t *testing.T) {
		_, err := f.tasks.UpdateFields(f.ctx, task.ID(), func(current *entities.Task) error {
			current.SetDescription("half-applied")
			return current.SetStatus("DONE")
		})
		require.ErrorIs(t, err, entities.ErrInvalidStatus)

		stored, ok := f.tasks.GetByID(task.ID())
		require.True(t, ok)
		assert.Empty(t, stored.Description())
	})

	t.Run("missing task", func(t *testing.T) {
		called := false
		updated, err := f.tasks.UpdateFields(f.ctx, uuid.New(), func(*entities.Task) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.Nil(t, updated)
		assert.False(t, called)
	})
}

func TestGroupRepository_UpdateDetails(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "StrongPass1")
	bob := f.addUser(t, "bob", "StrongPass2")

	group, err := entities.NewGroup("Chores", alice.ID())
	require.NoError(t, err)
	_, err = f.groups.Add(f.ctx, group)
	require.NoError(t, err)
	_, err = f.groups.AddMember(f.ctx, group.ID(), bob.ID(), true)
	require.NoError(t, err)
	_, err = f.groups.RemoveMember(f.ctx, group.ID(), bob.ID())
	require.NoError(t, err)

	tests := []struct {
		name     string
		newName  string
		wantErr  error
		wantName string
	}{
		{name: "rename keeps members", newName: "  Weekend chores ", wantName: "Weekend chores"},
		{name: "blank name rejected", newName: "   ", wantErr: entities.ErrInvalidArgument, wantName: "Weekend chores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.groups.UpdateDetails(f.ctx, group.ID(), tt.newName, "shared flat")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			stored, ok := f.groups.GetByID(group.ID())
			require.True(t, ok)
			assert.Equal(t, tt.wantName, stored.Name())
			assert.True(t, stored.IsAdmin(alice.ID()))
			assert.False(t, stored.IsMember(bob.ID()), "removed member stays removed")
		})
	}

	updated, err := f.groups.UpdateDetails(f.ctx, uuid.New(), "Ghost", "")
	require.NoError(t, err)
	assert.Nil(t, updated)
}
