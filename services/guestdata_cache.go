package services

import (
	"sync"
	"time"

	"gorm.io/gorm"
)

type cacheEntry struct {
	data      *GuestData
	expiresAt time.Time
}

// GuestDataCache is a per-process TTL cache of loaded guest bundles, keyed
// by identity. The clock is injectable so expiry is testable.
type GuestDataCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uint]cacheEntry
}

func NewGuestDataCache(ttl time.Duration, now func() time.Time) *GuestDataCache {
	if now == nil {
		now = time.Now
	}
	return &GuestDataCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[uint]cacheEntry),
	}
}

func (c *GuestDataCache) Get(identityID uint) (*GuestData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[identityID]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, identityID)
		return nil, false
	}
	return e.data, true
}

func (c *GuestDataCache) Put(identityID uint, data *GuestData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[identityID] = cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops one identity's entry. Called on sign-in, sign-out and
// after any write that touches the invite bundle.
func (c *GuestDataCache) Invalidate(identityID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, identityID)
}

func (c *GuestDataCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint]cacheEntry)
}

// Load returns the cached bundle or loads and caches a fresh one. Error
// outcomes are never cached.
func (c *GuestDataCache) Load(db *gorm.DB, identityID uint) (*GuestData, error) {
	if data, ok := c.Get(identityID); ok {
		return data, nil
	}
	data, err := LoadGuestData(db, identityID)
	if err != nil {
		return nil, err
	}
	c.Put(identityID, data)
	return data, nil
}

// Cache is the shared instance used by the controllers.
var Cache = NewGuestDataCache(5*time.Minute, time.Now)
