// Package hint provides a bounded cache of access hints: observations
// about which keys, values, and paths a hive's callers touch most. The
// cache is advisory; entries carry cell offsets that may go stale after
// compaction, so consumers always re-resolve through the key tree.
//
// Entries are keyed by (owner, type, path, offset). Repeated adds bump
// an access counter; when the cache is full, the entry with the oldest
// last-access tick is evicted.
package hint

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCapacity is the cache bound used when callers pass 0.
const DefaultCapacity = 1024

// Type classifies what an entry describes.
type Type uint32

const (
	KeyAccess Type = iota + 1
	ValueAccess
	FrequentPath
	CacheWarm
)

// Entry is one cached hint.
type Entry struct {
	Owner       string
	Type        Type
	Path        string
	CellOffset  uint32
	AccessCount uint64
	LastAccess  uint64
}

// Stats counts cache activity.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Clock supplies monotonic ticks for recency ordering.
type Clock func() uint64

// Cache is a bounded hint cache, safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  []*Entry
	capacity int
	clock    Clock

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache returns a cache bounded at capacity entries (0 means
// DefaultCapacity). A nil clock falls back to wall-clock nanoseconds.
func NewCache(capacity int, clock Clock) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().UnixNano()) }
	}
	return &Cache{capacity: capacity, clock: clock}
}

func (c *Cache) find(owner string, t Type, path string, off uint32) *Entry {
	for _, e := range c.entries {
		if e.Owner == owner && e.Type == t && e.CellOffset == off && e.Path == path {
			return e
		}
	}
	return nil
}

// Add records an access. An existing matching entry has its counter
// bumped; otherwise a new entry is inserted, evicting the least
// recently touched entry when the cache is full.
func (c *Cache) Add(owner string, t Type, path string, off uint32) {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.find(owner, t, path, off); e != nil {
		e.AccessCount++
		e.LastAccess = now
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries = append(c.entries, &Entry{
		Owner:       owner,
		Type:        t,
		Path:        path,
		CellOffset:  off,
		AccessCount: 1,
		LastAccess:  now,
	})
}

func (c *Cache) evictOldestLocked() {
	if len(c.entries) == 0 {
		return
	}
	oldest := 0
	for i, e := range c.entries {
		if e.LastAccess < c.entries[oldest].LastAccess {
			oldest = i
		}
	}
	c.entries = append(c.entries[:oldest], c.entries[oldest+1:]...)
	c.evictions.Add(1)
}

// Find looks up a hint by (owner, type, path) and returns its cell
// offset. A hit bumps the entry's recency.
func (c *Cache) Find(owner string, t Type, path string) (uint32, bool) {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.Owner == owner && e.Type == t && e.Path == path {
			e.AccessCount++
			e.LastAccess = now
			c.hits.Add(1)
			return e.CellOffset, true
		}
	}
	c.misses.Add(1)
	return 0, false
}

// Remove drops the entry matching (owner, type, path, offset).
func (c *Cache) Remove(owner string, t Type, path string, off uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.Owner == owner && e.Type == t && e.CellOffset == off && e.Path == path {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// RemoveOwner drops every entry belonging to owner. Used when a hive is
// closed or unloaded.
func (c *Cache) RemoveOwner(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.Owner != owner {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

// FrequentPaths returns up to n entries ordered by descending access
// count.
func (c *Cache) FrequentPaths(n int) []Entry {
	c.mu.Lock()
	snapshot := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		snapshot[i] = *e
	}
	c.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].AccessCount > snapshot[j].AccessCount
	})
	if n > 0 && len(snapshot) > n {
		snapshot = snapshot[:n]
	}
	return snapshot
}

// KeyShape describes a key for UpdateFrom: its path, offset, and fanout.
type KeyShape struct {
	Path    string
	Offset  uint32
	SubKeys int
	Values  int
}

// UpdateFrom seeds FrequentPath hints for hot-looking keys: wide fanout
// suggests a path worth keeping warm.
func (c *Cache) UpdateFrom(owner string, keys []KeyShape) {
	for _, k := range keys {
		if k.SubKeys > 10 || k.Values > 20 {
			c.Add(owner, FrequentPath, k.Path, k.Offset)
		}
	}
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return Stats{
		Entries:   n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
