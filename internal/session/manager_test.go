package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moshehoffman37-prog/kids-hotline/internal/apiclient"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

// MockLoginAPI реализует интерфейс LoginAPI
type MockLoginAPI struct {
	mock.Mock
}

func (m *MockLoginAPI) Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if res := args.Get(0); res != nil {
		return res.(*apiclient.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func newManager(store storage.Store, api LoginAPI) *Manager {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewManager(store, api, logger)
}

func TestHydrateAnonymous(t *testing.T) {
	m := newManager(storage.NewMemory(), new(MockLoginAPI))

	before := m.Session()
	assert.True(t, before.IsLoading)

	require.NoError(t, m.Hydrate(context.Background()))

	s := m.Session()
	assert.False(t, s.IsLoading)
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
}

func TestHydrateAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeyAuthToken, "tok-1"))
	require.NoError(t, storage.SetJSON(ctx, store, storage.KeyAuthUser, models.User{ID: "u1", Email: "demo@example.com"}))

	m := newManager(store, new(MockLoginAPI))
	require.NoError(t, m.Hydrate(ctx))

	s := m.Session()
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "tok-1", s.Token)
	assert.Equal(t, "u1", s.User.ID)
}

func TestHydrateTokenWithoutUserStaysAnonymous(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeyAuthToken, "tok-1"))

	m := newManager(store, new(MockLoginAPI))
	require.NoError(t, m.Hydrate(ctx))
	assert.False(t, m.Session().IsAuthenticated)
}

func TestHydrateRunsOnce(t *testing.T) {
	m := newManager(storage.NewMemory(), new(MockLoginAPI))
	require.NoError(t, m.Hydrate(context.Background()))
	assert.ErrorIs(t, m.Hydrate(context.Background()), ErrAlreadyHydrated)
}

func TestLoginPersistsAndRestartHydrates(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	api := new(MockLoginAPI)
	api.On("Login", mock.Anything, "demo@example.com", "secret1").Return(&apiclient.LoginResult{
		Token: "tok-9",
		User:  models.User{ID: "u1", Email: "demo@example.com"},
	}, nil)

	m := newManager(store, api)
	require.NoError(t, m.Hydrate(ctx))
	require.NoError(t, m.Login(ctx, "demo@example.com", "secret1"))

	s := m.Session()
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "tok-9", s.Token)

	// Перезапуск приложения: новый менеджер над тем же хранилищем
	// гидратируется в то же авторизованное состояние без нового входа.
	restarted := newManager(store, api)
	require.NoError(t, restarted.Hydrate(ctx))
	rs := restarted.Session()
	assert.True(t, rs.IsAuthenticated)
	assert.Equal(t, "tok-9", rs.Token)
	assert.Equal(t, "u1", rs.User.ID)
	api.AssertExpectations(t)
}

func TestLoginFailureKeepsAnonymous(t *testing.T) {
	ctx := context.Background()
	api := new(MockLoginAPI)
	api.On("Login", mock.Anything, "demo@example.com", "wrong").Return(nil, errors.New("invalid email or password"))

	m := newManager(storage.NewMemory(), api)
	require.NoError(t, m.Hydrate(ctx))

	err := m.Login(ctx, "demo@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, m.Session().IsAuthenticated)
}

func TestLogoutClearsStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeyAuthToken, "tok-1"))
	require.NoError(t, storage.SetJSON(ctx, store, storage.KeyAuthUser, models.User{ID: "u1"}))
	require.NoError(t, store.Set(ctx, storage.KeyEntitlement, `{"active":true}`))

	m := newManager(store, new(MockLoginAPI))
	require.NoError(t, m.Hydrate(ctx))
	require.True(t, m.Session().IsAuthenticated)

	m.Logout(ctx)
	assert.False(t, m.Session().IsAuthenticated)

	for _, key := range []string{storage.KeyAuthToken, storage.KeyAuthUser, storage.KeyEntitlement} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s should be cleared", key)
	}
}
