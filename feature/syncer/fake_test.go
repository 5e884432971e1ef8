package syncer

import (
	"context"
	"fmt"
	"sync"

	"mapwize-api/core/reconcile"
)

type memGateway[T any, P reconcile.Object[T]] struct {
	mu      sync.Mutex
	items   []T
	nextID  int
	lists   int
	listErr error
	calls   []string
	// failOn maps "create:<name>" to the error Create returns for that name.
	failOn map[string]error
}

func newMemGateway[T any, P reconcile.Object[T]](items ...T) *memGateway[T, P] {
	return &memGateway[T, P]{items: items}
}

func (m *memGateway[T, P]) List(ctx context.Context, venueID string) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]T(nil), m.items...), nil
}

func (m *memGateway[T, P]) Create(ctx context.Context, obj T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := P(&obj).Meta()
	if err := m.failOn["create:"+meta.Name]; err != nil {
		return obj, err
	}
	m.nextID++
	meta.ID = fmt.Sprintf("id-%d", m.nextID)
	m.items = append(m.items, obj)
	m.calls = append(m.calls, "create:"+meta.Name)
	return obj, nil
}

func (m *memGateway[T, P]) Update(ctx context.Context, obj T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := P(&obj).Meta().ID
	for i := range m.items {
		if P(&m.items[i]).Meta().ID == id {
			m.items[i] = obj
		}
	}
	m.calls = append(m.calls, "update:"+id)
	return nil
}

func (m *memGateway[T, P]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, item := range m.items {
		if P(&item).Meta().ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	m.calls = append(m.calls, "delete:"+id)
	return nil
}

func (m *memGateway[T, P]) listCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}
