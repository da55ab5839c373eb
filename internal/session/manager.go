// Package session реализует машину состояний авторизации клиента.
//
// Состояния: hydrating -> anonymous | authenticated (однократный переход
// при старте), anonymous -> authenticated по Login, authenticated ->
// anonymous по Logout. Ответ 401 сам по себе состояние не меняет: клиент
// API лишь чистит хранилище, а владелец экрана обязан вызвать Logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/moshehoffman37-prog/kids-hotline/internal/apiclient"
	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

// ErrAlreadyHydrated возвращается при повторной попытке гидратации.
var ErrAlreadyHydrated = errors.New("session already hydrated")

// LoginAPI описывает часть клиента API, нужную менеджеру сессии.
type LoginAPI interface {
	// Login выполняет вход по email и паролю.
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
}

// Manager владеет единственным экземпляром состояния сессии.
// Все мутации проходят через него; пакетных синглтонов нет.
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	api      LoginAPI
	log      *slog.Logger
	hydrated bool
	user     *models.User
	token    string
}

// NewManager создаёт менеджер сессии поверх хранилища и клиента API.
func NewManager(store storage.Store, api LoginAPI, log *slog.Logger) *Manager {
	return &Manager{store: store, api: api, log: log}
}

// Hydrate читает сохранённые токен и пользователя из хранилища.
// Выполняется ровно один раз при старте приложения; сессия становится
// авторизованной только при наличии обоих значений.
func (m *Manager) Hydrate(ctx context.Context) error {
	const op = "session.Hydrate"
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hydrated {
		return fmt.Errorf("%s: %w", op, ErrAlreadyHydrated)
	}
	m.hydrated = true

	token, ok, err := m.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		m.log.Warn("failed to read stored token", sl.Err(err))
		return nil
	}
	if !ok || token == "" {
		return nil
	}

	var user models.User
	found, err := storage.GetJSON(ctx, m.store, storage.KeyAuthUser, &user)
	if err != nil {
		m.log.Warn("failed to read stored user", sl.Err(err))
		return nil
	}
	if !found {
		return nil
	}

	m.token = token
	m.user = &user
	m.log.Info("session hydrated", slog.String("user_id", user.ID))
	return nil
}

// Login выполняет вход, сохраняет учётные данные и переводит сессию
// в авторизованное состояние. При ошибке состояние не меняется.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	const op = "session.Login"
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.Set(ctx, storage.KeyAuthToken, res.Token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := storage.SetJSON(ctx, m.store, storage.KeyAuthUser, res.User); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	m.token = res.Token
	user := res.User
	m.user = &user
	m.mu.Unlock()

	m.log.Info("user logged in", slog.String("user_id", res.User.ID))
	return nil
}

// Logout очищает сохранённые учётные данные и переводит сессию
// в анонимное состояние. Ошибки хранилища не прерывают выход.
func (m *Manager) Logout(ctx context.Context) {
	for _, key := range []string{storage.KeyAuthToken, storage.KeyAuthUser, storage.KeyEntitlement} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.log.Warn("failed to clear stored credential", slog.String("key", key), sl.Err(err))
		}
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.log.Info("user logged out")
}

// Session возвращает снимок текущего состояния сессии.
func (m *Manager) Session() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	var user *models.User
	if m.user != nil {
		u := *m.user
		user = &u
	}
	return models.Session{
		IsAuthenticated: m.token != "" && m.user != nil,
		User:            user,
		Token:           m.token,
		IsLoading:       !m.hydrated,
	}
}
