package cache

import (
	"encoding/json"
	"time"

	"github.com/aretw0/introspection"
)

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Name                string     `json:"name"`
	Size                int        `json:"size"`
	MaxSize             int        `json:"maxSize"`
	Hits                uint64     `json:"hits"`
	Misses              uint64     `json:"misses"`
	HitRate             float64    `json:"hitRate"`
	Evictions           uint64     `json:"evictions"`
	Expirations         uint64     `json:"expirations"`
	AvgAccessTimeMs     float64    `json:"avgAccessTimeMs"`
	OldestEntry         *time.Time `json:"oldestEntry,omitempty"`
	NewestEntry         *time.Time `json:"newestEntry,omitempty"`
	MemoryEstimateBytes int64      `json:"memoryEstimateBytes"`
}

// Stats returns current counters. HitRate is hits/(hits+misses), 0 when
// there were no reads.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Name:        c.name,
		Size:        len(c.entries),
		MaxSize:     c.cfg.MaxSize,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}

	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}

	if n := min(c.timingCount, timingWindow); n > 0 {
		var sum time.Duration
		for i := range n {
			sum += c.timings[i]
		}

		s.AvgAccessTimeMs = float64(sum) / float64(n) / float64(time.Millisecond)
	}

	for _, e := range c.entries {
		created := e.CreatedAt
		if s.OldestEntry == nil || created.Before(*s.OldestEntry) {
			s.OldestEntry = &created
		}

		if s.NewestEntry == nil || created.After(*s.NewestEntry) {
			s.NewestEntry = &created
		}

		s.MemoryEstimateBytes += entryOverhead + int64(len(e.Key))
		if data, err := json.Marshal(e.Value); err == nil {
			s.MemoryEstimateBytes += int64(len(data))
		}
	}

	return s
}

// State implements introspection.Introspectable.
func (c *Cache[T]) State() any {
	return c.Stats()
}

// ComponentType implements introspection.Component.
func (c *Cache[T]) ComponentType() string {
	return "cache"
}

var _ introspection.Introspectable = (*Cache[int])(nil)
var _ introspection.Component = (*Cache[int])(nil)
