// Package runcache keeps completed simulation runs in memory so their ledgers
// can be fetched after the request that produced them. Entries expire after a
// TTL and are lost on restart.
package runcache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"hems-sim/internal/kpi"
	"hems-sim/internal/simulator"
)

// Entry is one cached run.
type Entry struct {
	ID        string
	Result    *simulator.Result
	KPI       kpi.KPI
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	store map[string]*Entry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its cleanup goroutine, which runs every
// cleanupEvery until Close is called. A non-positive cleanupEvery disables it.
func New(ttl, cleanupEvery time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &Cache{
		store: make(map[string]*Entry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go c.cleanup(cleanupEvery)
	}
	return c
}

// Put stores a run under a fresh UUID and returns the entry.
func (c *Cache) Put(res *simulator.Result, k kpi.KPI) *Entry {
	now := c.now()
	e := &Entry{
		ID:        uuid.NewString(),
		Result:    res,
		KPI:       k,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[e.ID] = e
	return e
}

// Get retrieves a run if present and not expired.
func (c *Cache) Get(id string) (*Entry, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[id]
	if !ok {
		return nil, false
	}
	if c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Purge removes expired entries and returns how many were dropped.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, e := range c.store {
		if now.After(e.ExpiresAt) {
			delete(c.store, id)
			n++
		}
	}
	return n
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Purge()
		case <-c.stop:
			return
		}
	}
}
