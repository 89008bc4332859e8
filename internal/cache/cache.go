// Package cache holds the client's volatile copy of item descriptions and
// types. Every view subtree fetches through one shared cache instance;
// values are refreshed on demand and retained untouched when the server
// cannot answer.
package cache

import (
	"log"
	"sync"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

// Fetcher is the server surface the cache needs. *api.Client satisfies it.
type Fetcher interface {
	GetItem(id item.ID) (item.Pair, bool)
	GetType(id item.ID) (item.Type, bool)
}

type entry struct {
	pair     item.Pair
	havePair bool
	typ      item.Type

	// editing marks a live text edit of the description. A background
	// refetch for the same id must not clobber the text under the cursor;
	// only a fetch for a different id (a new entry) starts clean.
	editing bool

	// failLogged keeps a flaky server from flooding the log: one line per
	// id until a fetch succeeds again.
	failLogged bool
}

// Cache is a lazy per-id store of item pairs and types. The pair and the
// type resolve through independent fetches; an item is renderable only once
// both have succeeded.
type Cache struct {
	mu      sync.RWMutex
	fetcher Fetcher
	entries map[item.ID]*entry
}

// New creates an empty cache over the given fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[item.ID]*entry),
	}
}

func (c *Cache) entryFor(id item.ID) *entry {
	if e, ok := c.entries[id]; ok {
		return e
	}
	e := &entry{typ: item.TypeUnresolved}
	c.entries[id] = e
	return e
}

// FetchItem refreshes the description and layout hint for id. Best-effort:
// on any failure the previous value is retained and the failure is logged.
func (c *Cache) FetchItem(id item.ID) {
	pair, ok := c.fetcher.GetItem(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryFor(id)
	if !ok {
		if !e.failLogged {
			log.Printf("cache: item %d unavailable, keeping previous value", id)
			e.failLogged = true
		}
		return
	}
	e.failLogged = false
	if e.editing && e.havePair {
		// Keep the in-progress text; the layout hint may still refresh.
		pair.Description = e.pair.Description
	}
	e.pair = pair
	e.havePair = true
}

// FetchType refreshes the resolved type for id, independently of FetchItem.
func (c *Cache) FetchType(id item.ID) {
	t, ok := c.fetcher.GetType(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryFor(id)
	if !ok || t == item.TypeUnresolved {
		return
	}
	e.typ = t
}

// Item returns the cached pair for id. ok is false until a fetch has
// succeeded.
func (c *Cache) Item(id item.ID) (item.Pair, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || !e.havePair {
		return item.Pair{}, false
	}
	return e.pair, true
}

// Type returns the cached type for id, TypeUnresolved until known.
func (c *Cache) Type(id item.ID) item.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[id]; ok {
		return e.typ
	}
	return item.TypeUnresolved
}

// Renderable reports whether both independent fetches have succeeded. An
// item with an unresolved half renders as nothing, not as a placeholder.
func (c *Cache) Renderable(id item.ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return ok && e.havePair && e.typ != item.TypeUnresolved
}

// BeginEdit marks a live text edit of id's description. While marked,
// refetches keep the local text.
func (c *Cache) BeginEdit(id item.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entryFor(id).editing = true
}

// EndEdit clears the edit mark.
func (c *Cache) EndEdit(id item.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		e.editing = false
	}
}

// SetDescription applies an optimistic local edit to id's description.
func (c *Cache) SetDescription(id item.ID, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryFor(id)
	e.pair.ID = id
	e.pair.Description = description
	e.havePair = true
}

// Invalidate drops the entry for id entirely, forcing the next fetch to
// start clean. Used by the explicit scene and group refresh toggles.
func (c *Cache) Invalidate(id item.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// KnownIDs returns the set of ids the cache has seen, for id allocation.
func (c *Cache) KnownIDs() map[item.ID]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	known := make(map[item.ID]struct{}, len(c.entries))
	for id := range c.entries {
		known[id] = struct{}{}
	}
	return known
}
