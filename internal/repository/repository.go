// Package repository содержит хранилища снимка состояния приложения.
package repository

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey задаёт ключ, под которым хранится снимок состояния.
const DefaultKey = "trademaster-storage"

// ErrSnapshotNotFound возвращается, если снимок ещё ни разу не сохранялся.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// MemoryRepository хранит снимок в памяти процесса.
type MemoryRepository struct {
	mu   sync.Mutex
	data []byte
	// количество успешных сохранений
	saves int
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load возвращает последний сохранённый снимок.
func (r *MemoryRepository) Load(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return nil, ErrSnapshotNotFound
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out, nil
}

// Save заменяет сохранённый снимок.
func (r *MemoryRepository) Save(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make([]byte, len(data))
	copy(r.data, data)
	r.saves++
	return nil
}

// Saves возвращает количество выполненных сохранений.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error {
	return nil
}
