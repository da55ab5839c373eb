package storage

import (
	"context"
	"sync"
)

// Memory — реализация Store в памяти, зеркало sqlite-хранилища для тестов.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get возвращает значение по ключу.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

// Set сохраняет значение по ключу.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove удаляет значение по ключу.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
