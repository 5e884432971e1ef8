package reconcile

import (
	"context"
	"fmt"
	"sync"
)

// fakeGateway is an in-memory Gateway recording every call.
type fakeGateway[T any, P Object[T]] struct {
	mu      sync.Mutex
	items   []T
	nextID  int
	calls   []string
	lists   int
	listErr error
	// fail maps "create:<name>", "update:<id>" or "delete:<id>" to an injected error.
	fail map[string]error
}

func newFakeGateway[T any, P Object[T]](items ...T) *fakeGateway[T, P] {
	return &fakeGateway[T, P]{items: items, fail: map[string]error{}}
}

func (f *fakeGateway[T, P]) List(ctx context.Context, venueID string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeGateway[T, P]) Create(ctx context.Context, obj T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := P(&obj).Meta().Name
	f.calls = append(f.calls, "create:"+name)
	if err := f.fail["create:"+name]; err != nil {
		var zero T
		return zero, err
	}
	f.nextID++
	P(&obj).Meta().ID = fmt.Sprintf("new-%d", f.nextID)
	f.items = append(f.items, obj)
	return obj, nil
}

func (f *fakeGateway[T, P]) Update(ctx context.Context, obj T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := P(&obj).Meta().ID
	f.calls = append(f.calls, "update:"+id)
	if err := f.fail["update:"+id]; err != nil {
		return err
	}
	for i := range f.items {
		if P(&f.items[i]).Meta().ID == id {
			f.items[i] = obj
			return nil
		}
	}
	return fmt.Errorf("object %s not found", id)
}

func (f *fakeGateway[T, P]) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+id)
	if err := f.fail["delete:"+id]; err != nil {
		return err
	}
	for i := range f.items {
		if P(&f.items[i]).Meta().ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("object %s not found", id)
}

func (f *fakeGateway[T, P]) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway[T, P]) snapshot() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items...)
}
