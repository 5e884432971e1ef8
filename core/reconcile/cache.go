package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// listing is a cached server list for one venue.
type listing[T any] struct {
	items []T
	built time.Time
}

// CachedGateway wraps a Gateway with a TTL cache over List, for read paths that can
// tolerate slightly stale data. Any mutation through the wrapper invalidates the cache.
// Reconciliation itself should use the underlying gateway so plans see live state.
type CachedGateway[T any] struct {
	Gateway[T]

	ttl time.Duration
	now func() time.Time

	mu     sync.RWMutex
	venues map[string]*listing[T]
	sf     singleflight.Group
}

// NewCachedGateway wraps gw. A zero ttl disables caching.
func NewCachedGateway[T any](gw Gateway[T], ttl time.Duration) *CachedGateway[T] {
	return &CachedGateway[T]{
		Gateway: gw,
		ttl:     ttl,
		now:     time.Now,
		venues:  make(map[string]*listing[T]),
	}
}

func (c *CachedGateway[T]) expired(l *listing[T]) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(l.built) > c.ttl
}

// List returns the cached listing when fresh, otherwise fetches it once even under
// concurrent callers.
func (c *CachedGateway[T]) List(ctx context.Context, venueID string) ([]T, error) {
	c.mu.RLock()
	l, ok := c.venues[venueID]
	c.mu.RUnlock()
	if ok && !c.expired(l) {
		return l.items, nil
	}

	result, err, _ := c.sf.Do(venueID, func() (interface{}, error) {
		c.mu.RLock()
		l, ok := c.venues[venueID]
		c.mu.RUnlock()
		if ok && !c.expired(l) {
			return l.items, nil
		}

		items, err := c.Gateway.List(ctx, venueID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.venues[venueID] = &listing[T]{items: items, built: c.now()}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]T), nil
}

func (c *CachedGateway[T]) Create(ctx context.Context, obj T) (T, error) {
	defer c.Invalidate()
	return c.Gateway.Create(ctx, obj)
}

func (c *CachedGateway[T]) Update(ctx context.Context, obj T) error {
	defer c.Invalidate()
	return c.Gateway.Update(ctx, obj)
}

func (c *CachedGateway[T]) Delete(ctx context.Context, id string) error {
	defer c.Invalidate()
	return c.Gateway.Delete(ctx, id)
}

// Invalidate drops every cached listing.
func (c *CachedGateway[T]) Invalidate() {
	c.mu.Lock()
	c.venues = make(map[string]*listing[T])
	c.mu.Unlock()
}
