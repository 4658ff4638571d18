// Package cache keeps fully loaded tables in memory keyed by name so that
// switching between views does not re-query the store.
package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/KaramelBytes/tablescope/internal/table"
)

// Loader fetches a table on a cache miss.
type Loader interface {
	Read(ctx context.Context, name string) (*table.Table, error)
}

// Cache is an unbounded name -> table map filled lazily from a Loader.
// Entries live until Invalidate is called; nothing is evicted. Names are
// matched without regard to case, as SQLite matches table names.
type Cache struct {
	loader  Loader
	mu      sync.Mutex
	entries map[string]*table.Table
}

// New returns an empty cache backed by loader.
func New(loader Loader) *Cache {
	return &Cache{loader: loader, entries: make(map[string]*table.Table)}
}

// Get returns the cached table or loads, stores and returns it.
// A failed load caches nothing.
func (c *Cache) Get(ctx context.Context, name string) (*table.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.entries[key(name)]; ok {
		return t, nil
	}
	t, err := c.loader.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	c.entries[key(name)] = t
	return t, nil
}

// Put stores t under name, replacing any existing entry.
func (c *Cache) Put(name string, t *table.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(name)] = t
}

// Invalidate drops the entry for name so the next Get reloads it.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key(name))
}

// Contains reports whether name is cached.
func (c *Cache) Contains(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key(name)]
	return ok
}

// key folds ASCII letters only, matching SQLite's NOCASE collation.
func key(name string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}, name)
}
