package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLocked is returned when the key is held by another run.
var ErrLocked = errors.New("reconciliation already in progress")

// Release frees an acquired lock.
type Release func(ctx context.Context) error

// Locker acquires exclusive, non-blocking locks.
type Locker interface {
	// Acquire takes the lock for key or fails fast with ErrLocked.
	Acquire(ctx context.Context, key string) (Release, error)
}

// Key builds the lock key of a (venue, kind) pair.
func Key(venueID, kind string) string {
	return "sync:" + venueID + ":" + kind
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// Acquire implements Locker.
func (m *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return nil, ErrLocked
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
		return nil
	}, nil
}
