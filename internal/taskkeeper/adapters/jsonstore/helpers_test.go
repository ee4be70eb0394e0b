package jsonstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskkeeper/internal/taskkeeper/adapters/jsonstore"
	"taskkeeper/pkg/logger"
)

type record struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func cloneRecord(r *record) *record {
	c := *r
	return &c
}

func recordOptions() jsonstore.Options[record] {
	return jsonstore.Options[record]{
		Kind:  "Record",
		IDOf:  func(r *record) uuid.UUID { return r.ID },
		Clone: cloneRecord,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func testResolver(t *testing.T) *jsonstore.PathResolver {
	t.Helper()
	resolver, err := jsonstore.NewPathResolver(t.TempDir(), jsonstore.EnvTest)
	require.NoError(t, err)
	return resolver
}

func newID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}

// mockPasswordService сравнивает пароль с хэшем вида "hashed:<password>".
type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	if fn, ok := args.Get(0).(func(string, string) bool); ok {
		return fn(password, hash), args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}

func hashedPasswordService() *mockPasswordService {
	svc := &mockPasswordService{}
	svc.On("Verify", mock.Anything, mock.Anything, mock.Anything).
		Return(func(password, hash string) bool {
			return hash == "hashed:"+password
		}, nil).Maybe()
	return svc
}
