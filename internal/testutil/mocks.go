package testutil

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// ErrSimulated: sentinel ошибка для тестов путей отказа store.
var ErrSimulated = errors.New("simulated store failure")

// MockStore: in-memory key/value store для unit тестов.
// Реализует db.Store, не требует файла или PostgreSQL.
type MockStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	err    error

	closed bool
}

// NewMockStore создаёт пустой MockStore.
func NewMockStore() *MockStore {
	return &MockStore{values: make(map[string][]byte)}
}

// FailWith заставляет все последующие операции возвращать err
// (nil возвращает нормальное поведение).
func (m *MockStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Get возвращает копию значения.
func (m *MockStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MockStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

func (m *MockStore) Has(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.values[key]
	return ok, nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed сообщает, был ли вызван Close.
func (m *MockStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Snapshot возвращает копию всех значений.
func (m *MockStore) Snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}
