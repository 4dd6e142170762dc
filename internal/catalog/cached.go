package catalog

import (
	"context"
	"sync"
	"time"
)

// Cached keeps the last menu fetched from a slower source for ttl. A failed
// refresh serves the previous menu when there is one.
type Cached struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	menu      *Menu
	fetchedAt time.Time
}

func NewCached(source Source, ttl time.Duration) *Cached {
	return &Cached{source: source, ttl: ttl, now: time.Now}
}

func (c *Cached) Menu(ctx context.Context) (*Menu, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.menu != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.menu, nil
	}
	menu, err := c.source.Menu(ctx)
	if err != nil {
		if c.menu != nil {
			return c.menu, nil
		}
		return nil, err
	}
	c.menu, c.fetchedAt = menu, c.now()
	return menu, nil
}
