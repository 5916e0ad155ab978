// Package memo caches element layouts across layout calls.
//
// An entry is only as good as the introspection answers it was computed
// from. Every entry carries the constraint recorded while it was laid out,
// and Lookup replays that constraint against the caller's introspection
// before returning it. A stale entry is dropped and reported as a miss.
//
// Two tiers: an in-process LRU (hashicorp/golang-lru) in front of an
// optional SQLite store that survives across runs.
package memo

import (
	"context"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/scribe/internal/frame"
	"github.com/roach88/scribe/internal/introspect"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/store"
)

// DefaultSize is the default number of in-memory entries.
const DefaultSize = 512

type entry struct {
	fragments  []frame.Frame
	constraint *introspect.Constraint
}

// Stats counts cache outcomes since the cache was created.
type Stats struct {
	Hits          int64 `json:"hits"`
	StoreHits     int64 `json:"store_hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
}

// Cache is a validated layout cache. Safe for concurrent use.
type Cache struct {
	mem    *lru.Cache[string, entry]
	store  *store.Store
	logger *slog.Logger

	hits, storeHits, misses, invalidations atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a persistent tier.
func WithStore(s *store.Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithLogger sets the logger for tier errors and invalidations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New returns a cache holding up to size entries in memory.
func New(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	mem, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{mem: mem, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup returns the fragments cached under key if their constraint holds
// against i. When i is tracked, the replayed calls are recorded into its
// constraint, so the caller's constraint stays complete on a hit.
//
// A stale entry is removed from both tiers and counted once.
func (c *Cache) Lookup(ctx context.Context, key string, i introspect.Introspection) ([]frame.Frame, bool) {
	if e, ok := c.mem.Get(key); ok {
		if e.constraint.Validate(i) {
			c.hits.Add(1)
			return e.fragments, true
		}
		c.mem.Remove(key)
		c.invalidate(ctx, key, "memory")
		return nil, false
	}

	if c.store != nil {
		if e, ok := c.loadStored(ctx, key); ok {
			if e.constraint.Validate(i) {
				c.storeHits.Add(1)
				c.mem.Add(key, e)
				return e.fragments, true
			}
			c.invalidate(ctx, key, "store")
			return nil, false
		}
	}

	c.misses.Add(1)
	return nil, false
}

// invalidate counts a stale entry as an invalidation and a miss and drops
// its persistent row.
func (c *Cache) invalidate(ctx context.Context, key, tier string) {
	c.invalidations.Add(1)
	c.misses.Add(1)
	c.logger.Debug("layout cache entry invalidated", "key", short(key), "tier", tier)
	if c.store == nil {
		return
	}
	if err := c.store.DeleteLayout(ctx, key); err != nil {
		c.logger.Warn("layout cache delete failed", "key", short(key), "error", err)
	}
}

func (c *Cache) loadStored(ctx context.Context, key string) (entry, bool) {
	row, ok, err := c.store.GetLayout(ctx, key)
	if err != nil {
		c.logger.Warn("layout cache read failed", "key", short(key), "error", err)
		return entry{}, false
	}
	if !ok {
		return entry{}, false
	}

	constraint, err := introspect.ConstraintFromIR(row.Constraint)
	if err != nil {
		c.logger.Warn("layout cache row unreadable", "key", short(key), "error", err)
		return entry{}, false
	}
	fragments := make([]frame.Frame, 0, len(row.Fragments))
	for _, raw := range row.Fragments {
		obj, ok := raw.(ir.IRObject)
		if !ok {
			return entry{}, false
		}
		f, err := frame.FromIR(obj)
		if err != nil {
			c.logger.Warn("layout cache row unreadable", "key", short(key), "error", err)
			return entry{}, false
		}
		fragments = append(fragments, f)
	}
	return entry{fragments: fragments, constraint: constraint}, true
}

// Store records fragments laid out under constraint. kind labels the row
// in the persistent tier. Store failures are logged, never returned: the
// cache is an optimization.
func (c *Cache) Store(ctx context.Context, key, kind string, fragments []frame.Frame, constraint *introspect.Constraint) {
	c.mem.Add(key, entry{fragments: fragments, constraint: constraint})
	if c.store == nil {
		return
	}

	arr := make(ir.IRArray, len(fragments))
	for i, f := range fragments {
		arr[i] = frame.ToIR(f)
	}
	err := c.store.PutLayout(ctx, store.Entry{
		Key:        key,
		Kind:       kind,
		Fragments:  arr,
		Constraint: constraint.ToIR(),
	})
	if err != nil {
		c.logger.Warn("layout cache write failed", "key", short(key), "error", err)
	}
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int { return c.mem.Len() }

// Prune keeps the newest keep rows of the persistent tier and returns the
// number removed. Without a persistent tier it does nothing.
func (c *Cache) Prune(ctx context.Context, keep int) (int64, error) {
	if c.store == nil {
		return 0, nil
	}
	return c.store.PruneLayouts(ctx, keep)
}

// Stored returns the number of persistent rows per element kind, or nil
// without a persistent tier.
func (c *Cache) Stored(ctx context.Context) (map[string]int, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.CountLayouts(ctx)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		StoreHits:     c.storeHits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
	}
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
