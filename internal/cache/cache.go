// Package cache provides a bounded, expiring key/value cache whose contents
// survive restarts through a pluggable snapshot Store.
package cache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

// Store persists whole-cache snapshots under a persistence key.
// Load returns nil data and a nil error when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Config describes one logical cache.
type Config struct {
	// Name labels metrics and log lines.
	Name string
	// MaxEntries bounds the entry count after every insert.
	MaxEntries int
	// DefaultTTL applies when Set is called without an explicit TTL.
	DefaultTTL time.Duration
	// PersistenceKey names the snapshot in the Store.
	PersistenceKey string
}

// Entry is a cached value with its creation and expiry instants.
type Entry[T any] struct {
	Data      T         `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	seq uint64
}

func (e Entry[T]) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stats summarises cache contents at a point in time.
type Stats struct {
	Name         string     `json:"name"`
	TotalItems   int        `json:"totalItems"`
	ValidItems   int        `json:"validItems"`
	ExpiredItems int        `json:"expiredItems"`
	MaxEntries   int        `json:"maxEntries"`
	OldestItem   *time.Time `json:"oldestItem"`
	NewestItem   *time.Time `json:"newestItem"`
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	store        Store
	now          func() time.Time
	storeTimeout time.Duration
}

// WithStore attaches a durable snapshot store. Without one the cache is memory-only.
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithStoreTimeout bounds each Load or Save against the store.
func WithStoreTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.storeTimeout = d
		}
	}
}

// Cache is a bounded map of expiring entries. It is safe for concurrent use.
type Cache[T any] struct {
	cfg  Config
	opts options

	mu      sync.RWMutex
	entries map[string]Entry[T]
	seq     uint64
	version uint64

	persistMu    sync.Mutex
	savedVersion uint64
}

// New constructs a cache and restores any unexpired entries from the store.
func New[T any](cfg Config, opts ...Option) *Cache[T] {
	o := options{now: time.Now, storeTimeout: 3 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 10 * time.Minute
	}
	if cfg.PersistenceKey == "" {
		cfg.PersistenceKey = cfg.Name
	}

	c := &Cache[T]{
		cfg:     cfg,
		opts:    o,
		entries: make(map[string]Entry[T]),
	}
	c.load()
	return c
}

// Name returns the configured cache name.
func (c *Cache[T]) Name() string {
	return c.cfg.Name
}

// Set stores value under key with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key. A non-positive ttl means the default TTL.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}
	now := c.opts.now()

	c.mu.Lock()
	c.seq++
	c.entries[key] = Entry[T]{
		Data:      value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		seq:       c.seq,
	}
	evicted := c.cleanupLocked(now)
	version, snapshot := c.snapshotLocked()
	size := len(c.entries)
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.cfg.Name, "set", "success")
	if evicted > 0 {
		metrics.RecordCacheOperation(c.cfg.Name, "evict", "capacity")
	}
	metrics.UpdateCacheMetrics(c.cfg.Name, size, c.cfg.MaxEntries)
	c.persist(version, snapshot)
}

// Get returns the value for key. An expired entry is removed and reported absent.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	now := c.opts.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.RecordCacheOperation(c.cfg.Name, "get", "miss")
		return zero, false
	}
	if entry.expired(now) {
		c.evictExpired(key, entry.seq)
		metrics.RecordCacheOperation(c.cfg.Name, "get", "expired")
		return zero, false
	}

	metrics.RecordCacheOperation(c.cfg.Name, "get", "hit")
	return entry.Data, true
}

// Has reports whether key holds an unexpired entry.
func (c *Cache[T]) Has(key string) bool {
	now := c.opts.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false
	}
	if entry.expired(now) {
		c.evictExpired(key, entry.seq)
		return false
	}
	return true
}

// Delete removes key if present.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	version, snapshot := c.snapshotLocked()
	size := len(c.entries)
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.cfg.Name, "delete", "success")
	metrics.UpdateCacheMetrics(c.cfg.Name, size, c.cfg.MaxEntries)
	c.persist(version, snapshot)
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry[T])
	version, snapshot := c.snapshotLocked()
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.cfg.Name, "clear", "success")
	metrics.UpdateCacheMetrics(c.cfg.Name, 0, c.cfg.MaxEntries)
	c.persist(version, snapshot)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports entry counts and the creation range of valid entries.
func (c *Cache[T]) Stats() Stats {
	now := c.opts.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		Name:       c.cfg.Name,
		TotalItems: len(c.entries),
		MaxEntries: c.cfg.MaxEntries,
	}
	for _, e := range c.entries {
		if e.expired(now) {
			continue
		}
		stats.ValidItems++
		created := e.CreatedAt
		if stats.OldestItem == nil || created.Before(*stats.OldestItem) {
			stats.OldestItem = &created
		}
		if stats.NewestItem == nil || created.After(*stats.NewestItem) {
			stats.NewestItem = &created
		}
	}
	stats.ExpiredItems = stats.TotalItems - stats.ValidItems
	return stats
}

// evictExpired removes key only if it still holds the entry identified by seq,
// so a concurrent Set is never undone.
func (c *Cache[T]) evictExpired(key string, seq uint64) {
	c.mu.Lock()
	current, ok := c.entries[key]
	if !ok || current.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.entries, key)
	version, snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(version, snapshot)
}

// cleanupLocked drops expired entries, then the oldest by creation until the
// cache is back within bounds. Returns the number removed for capacity.
func (c *Cache[T]) cleanupLocked(now time.Time) int {
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}

	overflow := len(c.entries) - c.cfg.MaxEntries
	if overflow <= 0 {
		return 0
	}

	type aged struct {
		key     string
		created time.Time
		seq     uint64
	}
	list := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		list = append(list, aged{key: k, created: e.CreatedAt, seq: e.seq})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].created.Equal(list[j].created) {
			return list[i].seq < list[j].seq
		}
		return list[i].created.Before(list[j].created)
	})
	for _, a := range list[:overflow] {
		delete(c.entries, a.key)
	}
	return overflow
}

// snapshotLocked copies the current entries and bumps the version. Must hold mu.
func (c *Cache[T]) snapshotLocked() (uint64, map[string]Entry[T]) {
	c.version++
	if c.opts.store == nil {
		return c.version, nil
	}
	snap := make(map[string]Entry[T], len(c.entries))
	for k, e := range c.entries {
		snap[k] = e
	}
	return c.version, snap
}

// persist writes snapshot unless a newer one has already been saved.
// Store failures degrade to memory-only caching.
func (c *Cache[T]) persist(version uint64, snapshot map[string]Entry[T]) {
	if c.opts.store == nil {
		return
	}

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	if version <= c.savedVersion {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Warn().Err(err).Str("cache", c.cfg.Name).Msg("Failed to encode cache snapshot")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.storeTimeout)
	defer cancel()

	if err := c.opts.store.Save(ctx, c.cfg.PersistenceKey, data); err != nil {
		log.Warn().Err(err).Str("cache", c.cfg.Name).Msg("Failed to persist cache snapshot")
		metrics.RecordCacheOperation(c.cfg.Name, "persist", "error")
		return
	}
	c.savedVersion = version
	metrics.RecordCacheOperation(c.cfg.Name, "persist", "success")
}

func (c *Cache[T]) load() {
	if c.opts.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.storeTimeout)
	defer cancel()

	data, err := c.opts.store.Load(ctx, c.cfg.PersistenceKey)
	if err != nil {
		log.Warn().Err(err).Str("cache", c.cfg.Name).Msg("Failed to load cache snapshot")
		return
	}
	if len(data) == 0 {
		return
	}

	var stored map[string]Entry[T]
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Warn().Err(err).Str("cache", c.cfg.Name).Msg("Discarding unreadable cache snapshot")
		return
	}

	now := c.opts.now()
	keys := make([]string, 0, len(stored))
	for k, e := range stored {
		if !e.expired(now) && e.ExpiresAt.After(e.CreatedAt) {
			keys = append(keys, k)
		}
	}
	// restore insertion order from creation time so eviction ties stay stable
	sort.Slice(keys, func(i, j int) bool {
		a, b := stored[keys[i]].CreatedAt, stored[keys[j]].CreatedAt
		if a.Equal(b) {
			return keys[i] < keys[j]
		}
		return a.Before(b)
	})

	c.mu.Lock()
	for _, k := range keys {
		c.seq++
		e := stored[k]
		e.seq = c.seq
		c.entries[k] = e
	}
	c.cleanupLocked(now)
	size := len(c.entries)
	c.mu.Unlock()

	metrics.UpdateCacheMetrics(c.cfg.Name, size, c.cfg.MaxEntries)
	log.Info().Str("cache", c.cfg.Name).Int("entries", size).Msg("Restored cache snapshot")
}
