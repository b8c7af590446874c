package storage

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/opencontainers/go-digest"
)

// MockStorage is a simple in-memory Storage implementation for tests.
type MockStorage struct {
	mu     sync.RWMutex
	files  map[string][]byte
	writes int
}

// NewMockStorage constructs an empty MockStorage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files: make(map[string][]byte),
	}
}

// Stat returns the size and digest of a stored file.
func (m *MockStorage) Stat(ctx context.Context, path string) (FileDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path]
	if !ok {
		return FileDescriptor{}, fmt.Errorf("mock storage: %s: %w", path, os.ErrNotExist)
	}
	return FileDescriptor{
		Path:   path,
		Size:   int64(len(data)),
		Digest: digest.FromBytes(data),
	}, nil
}

// ReadFile returns a copy of the stored content.
func (m *MockStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("mock storage: %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data under path.
func (m *MockStorage) WriteFile(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// AddFile seeds the storage and returns the content digest.
func (m *MockStorage) AddFile(path string, data []byte) digest.Digest {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = append([]byte(nil), data...)
	return digest.FromBytes(data)
}

// Writes returns how many times WriteFile was called.
func (m *MockStorage) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
