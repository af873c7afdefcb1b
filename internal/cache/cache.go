package cache

import (
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// timingWindow is how many recent Get timings feed AvgAccessTimeMs.
const timingWindow = 100

// entryOverhead approximates per-entry bookkeeping bytes for MemoryEstimateBytes.
const entryOverhead = 96

const snapshotVersion = 1

// Config controls capacity, expiry, persistence and background cleanup.
// Zero values mean unbounded, never expiring, not persisted and no sweep.
type Config struct {
	MaxSize         int           `yaml:"max_size" json:"maxSize"`
	TTL             time.Duration `yaml:"ttl" json:"ttl"`
	Persistent      bool          `yaml:"persistent" json:"persistent"`
	StorageKey      string        `yaml:"storage_key" json:"storageKey"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanupInterval"`
}

// entry is the bookkeeping record for one key. It never leaves this package.
type entry[T any] struct {
	Key            string        `json:"key"`
	Value          T             `json:"value"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastAccessedAt time.Time     `json:"lastAccessedAt"`
	HitCount       int           `json:"hitCount"`
	TTL            time.Duration `json:"ttl,omitempty"`

	elem *list.Element
}

type snapshot[T any] struct {
	Version int         `json:"version"`
	SavedAt time.Time   `json:"savedAt"`
	Entries []*entry[T] `json:"entries"` // least recently used first
}

// Cache is a key/value store with LRU eviction, optional TTL, hit/miss
// accounting and optional persistence to a DurableStore.
//
// Every public method is safe for concurrent use. Internal failures
// (serialization, storage) are logged and reported as misses or false;
// they never reach the caller.
type Cache[T any] struct {
	name   string
	cfg    Config
	store  DurableStore
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	entries     map[string]*entry[T]
	lru         *list.List // front is most recently used; values are keys
	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
	timings     [timingWindow]time.Duration
	timingCount int

	persistMu sync.Mutex

	sweepMu sync.Mutex
	sweeper *cron.Cron
}

// New creates a cache and, when persistence is enabled, restores entries
// from the durable store. A store that cannot be read yields an empty cache.
func New[T any](cfg Config, opts ...Option) *Cache[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if cfg.StorageKey == "" {
		cfg.StorageKey = o.name
	}

	c := &Cache[T]{
		name:    o.name,
		cfg:     cfg,
		store:   o.store,
		logger:  o.logger,
		now:     o.now,
		entries: make(map[string]*entry[T]),
		lru:     list.New(),
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.logger = c.logger.With("cache", c.name)

	if cfg.Persistent {
		if c.store == nil {
			c.logger.Warn("persistence requested without a durable store, disabled")
			c.cfg.Persistent = false
		} else {
			c.load()
		}
	}

	return c
}

// Name returns the cache name used in logs and the default storage key.
func (c *Cache[T]) Name() string {
	return c.name
}

// Get returns the value for key. Expired entries are evicted and reported
// as misses.
func (c *Cache[T]) Get(key string) (T, bool) {
	start := time.Now()

	var zero T

	c.mu.Lock()
	defer func() {
		c.recordTimingLocked(time.Since(start))
		c.mu.Unlock()
	}()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	now := c.now()
	if c.expiredLocked(e, now) {
		c.removeLocked(e)
		c.expirations++
		c.misses++

		return zero, false
	}

	e.HitCount++
	e.LastAccessedAt = now
	c.lru.MoveToFront(e.elem)
	c.hits++

	return e.Value, true
}

// Set stores v under key using the configured TTL.
func (c *Cache[T]) Set(key string, v T) bool {
	return c.SetWithTTL(key, v, 0)
}

// SetWithTTL stores v under key. A zero ttl falls back to the configured TTL.
// When the cache is full and key is new, the least recently used entry is
// evicted first.
func (c *Cache[T]) SetWithTTL(key string, v T, ttl time.Duration) bool {
	if key == "" {
		return false
	}

	now := c.now()

	c.mu.Lock()

	if e, exists := c.entries[key]; exists {
		e.Value = v
		e.CreatedAt = now
		e.LastAccessedAt = now
		e.HitCount = 0
		e.TTL = ttl
		c.lru.MoveToFront(e.elem)
	} else {
		if c.cfg.MaxSize > 0 {
			for len(c.entries) >= c.cfg.MaxSize {
				if !c.evictLRULocked() {
					break
				}
			}
		}

		e := &entry[T]{
			Key:            key,
			Value:          v,
			CreatedAt:      now,
			LastAccessedAt: now,
			TTL:            ttl,
		}
		e.elem = c.lru.PushFront(key)
		c.entries[key] = e
	}

	c.mu.Unlock()

	if c.cfg.Persistent {
		c.persist()
	}

	return true
}

// Delete removes key and reports whether it was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()

	e, ok := c.entries[key]
	if ok {
		c.removeLocked(e)
	}

	c.mu.Unlock()

	if ok && c.cfg.Persistent {
		c.persist()
	}

	return ok
}

// Has reports whether key is present and not expired. It does not touch
// recency or hit counters.
func (c *Cache[T]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]

	return ok && !c.expiredLocked(e, c.now())
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear drops every entry. Hit and miss counters are kept.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry[T])
	c.lru.Init()
	c.mu.Unlock()

	if c.cfg.Persistent {
		c.persist()
	}
}

// Cleanup removes expired entries and enforces MaxSize. It returns the
// number of removed entries.
func (c *Cache[T]) Cleanup() int {
	now := c.now()
	removed := 0

	c.mu.Lock()

	for _, e := range c.entries {
		if c.expiredLocked(e, now) {
			c.removeLocked(e)
			c.expirations++
			removed++
		}
	}

	if c.cfg.MaxSize > 0 {
		for len(c.entries) > c.cfg.MaxSize {
			if !c.evictLRULocked() {
				break
			}

			removed++
		}
	}

	c.mu.Unlock()

	if removed > 0 && c.cfg.Persistent {
		c.persist()
	}

	return removed
}

// Start schedules the background sweep every CleanupInterval. It is a
// no-op when the interval is zero or the sweep is already running.
// The scheduler has one-second resolution.
func (c *Cache[T]) Start() {
	if c.cfg.CleanupInterval <= 0 {
		return
	}

	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	if c.sweeper != nil {
		return
	}

	s := cron.New()
	s.Schedule(cron.Every(c.cfg.CleanupInterval), cron.FuncJob(c.sweep))
	s.Start()
	c.sweeper = s

	c.logger.Debug("cache sweep started", "interval", c.cfg.CleanupInterval)
}

// Stop cancels the background sweep and waits for a running sweep to finish.
func (c *Cache[T]) Stop() {
	c.sweepMu.Lock()
	s := c.sweeper
	c.sweeper = nil
	c.sweepMu.Unlock()

	if s == nil {
		return
	}

	<-s.Stop().Done()
	c.logger.Debug("cache sweep stopped")
}

func (c *Cache[T]) sweep() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("cache sweep panicked", "panic", r)
		}
	}()

	if removed := c.Cleanup(); removed > 0 {
		c.logger.Debug("cache sweep removed entries", "removed", removed)
	}
}

func (c *Cache[T]) expiredLocked(e *entry[T], now time.Time) bool {
	ttl := e.TTL
	if ttl <= 0 {
		ttl = c.cfg.TTL
	}

	return ttl > 0 && now.Sub(e.CreatedAt) > ttl
}

func (c *Cache[T]) removeLocked(e *entry[T]) {
	c.lru.Remove(e.elem)
	delete(c.entries, e.Key)
}

func (c *Cache[T]) evictLRULocked() bool {
	back := c.lru.Back()
	if back == nil {
		return false
	}

	key, _ := back.Value.(string)
	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
	} else {
		c.lru.Remove(back)
	}

	c.evictions++

	return true
}

func (c *Cache[T]) recordTimingLocked(d time.Duration) {
	c.timings[c.timingCount%timingWindow] = d
	c.timingCount++
}

func (c *Cache[T]) persist() {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	snap := snapshot[T]{
		Version: snapshotVersion,
		SavedAt: c.now(),
		Entries: make([]*entry[T], 0, len(c.entries)),
	}

	for el := c.lru.Back(); el != nil; el = el.Prev() {
		key, _ := el.Value.(string)
		if e, ok := c.entries[key]; ok {
			snap.Entries = append(snap.Entries, e)
		}
	}

	data, err := json.Marshal(snap)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("cache snapshot encode failed", "error", err)
		return
	}

	if err := c.store.Put(c.cfg.StorageKey, data); err != nil {
		c.logger.Warn("cache snapshot write failed", "key", c.cfg.StorageKey, "error", err)
	}
}

func (c *Cache[T]) load() {
	data, err := c.store.Get(c.cfg.StorageKey)
	if errors.Is(err, ErrNotFound) {
		return
	}

	if err != nil {
		c.logger.Warn("cache snapshot read failed, starting empty", "key", c.cfg.StorageKey, "error", err)
		return
	}

	restored, err := decodeSnapshot[T](data)
	if err != nil {
		c.logger.Warn("cache snapshot corrupt, starting empty", "key", c.cfg.StorageKey, "error", err)
		return
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range restored.Entries {
		if e == nil || e.Key == "" || c.expiredLocked(e, now) {
			continue
		}

		if old, dup := c.entries[e.Key]; dup {
			c.removeLocked(old)
		}

		e.elem = c.lru.PushFront(e.Key)
		c.entries[e.Key] = e
	}

	for c.cfg.MaxSize > 0 && len(c.entries) > c.cfg.MaxSize {
		c.evictLRULocked()
	}

	c.logger.Debug("cache restored", "entries", len(c.entries))
}

func decodeSnapshot[T any](data []byte) (snapshot[T], error) {
	var snap snapshot[T]

	err := json.Unmarshal(data, &snap)
	if err != nil {
		return snapshot[T]{}, fmt.Errorf("decode snapshot: %w", err)
	}

	if snap.Version != snapshotVersion {
		return snapshot[T]{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	return snap, nil
}
