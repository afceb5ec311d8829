// Package routecache memoizes routing results for callers that re-route unchanged
// connectors repeatedly, such as an editor reacting to drag events.
package routecache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/pathfinding"
)

// ErrInvalidSize is returned for a non-positive cache size.
var ErrInvalidSize = errors.New("cache size must be positive")

// Key identifies a routing request. Obstacles and options are folded into a hash.
type Key struct {
	From, To  core.Point
	Algorithm core.Algorithm
	Hash      uint64
}

// Stats reports cache usage.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// HitRate returns the share of lookups that were hits, in percent.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// String returns a string representation of the statistics.
func (s Stats) String() string {
	return fmt.Sprintf("RouteCache[size=%d, hits=%d, misses=%d, hitRate=%.1f%%]",
		s.Size, s.Hits, s.Misses, s.HitRate())
}

// Cache wraps a Router with an LRU of results. Safe for concurrent use.
type Cache struct {
	router  *pathfinding.Router
	entries *lru.Cache[Key, core.RouteResult]
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a cache holding at most size results.
func New(router *pathfinding.Router, size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	entries, err := lru.New[Key, core.RouteResult](size)
	if err != nil {
		return nil, fmt.Errorf("creating route cache: %w", err)
	}
	return &Cache{router: router, entries: entries}, nil
}

// Route returns the cached result for the request or computes and stores it.
// The returned result never aliases the cached one.
func (c *Cache) Route(from, to core.Point, obstacles []core.Obstacle, opts *pathfinding.RouteOptions) core.RouteResult {
	key := c.KeyOf(from, to, obstacles, opts)

	if cached, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return cached.Clone()
	}
	c.misses.Add(1)

	result := c.router.Route(from, to, obstacles, opts)
	c.entries.Add(key, result.Clone())
	return result
}

// KeyOf builds the cache key of a request.
func (c *Cache) KeyOf(from, to core.Point, obstacles []core.Obstacle, opts *pathfinding.RouteOptions) Key {
	algo := core.Hybrid
	if opts != nil {
		algo = opts.Algorithm
	}
	return Key{
		From:      from,
		To:        to,
		Algorithm: algo,
		Hash:      hashRequest(c.router.Config(), obstacles, opts),
	}
}

// Stats returns the current statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.entries.Len(),
	}
}

// Purge drops every cached result and resets the statistics.
func (c *Cache) Purge() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// hashRequest folds the config, the obstacles and the options into a 64-bit FNV-1a hash.
// Obstacle order matters.
func hashRequest(cfg core.RouterConfig, obstacles []core.Obstacle, opts *pathfinding.RouteOptions) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeFloat(cfg.GridSize)
	writeFloat(cfg.Padding)
	writeInt(cfg.MaxIterations)
	writeFloat(cfg.DiagonalCost)
	writeFloat(cfg.OrthogonalCost)

	writeInt(len(obstacles))
	for _, o := range obstacles {
		writeInt(len(o.ID))
		h.Write([]byte(o.ID))
		writeFloat(o.Bounds.X)
		writeFloat(o.Bounds.Y)
		writeFloat(o.Bounds.W)
		writeFloat(o.Bounds.H)
		writeFloat(o.Padding)
	}

	if opts == nil {
		return h.Sum64()
	}
	if a := opts.AStar; a != nil {
		h.Write([]byte{'a'})
		writeInt(int(a.Heuristic))
		writeFloat(a.BendPenalty)
		writeFloat(a.Weight)
	}
	if o := opts.Orthogonal; o != nil {
		h.Write([]byte{'o'})
		writeInt(int(o.StartDirection))
		writeInt(int(o.EndDirection))
		writeFloat(o.BendCost)
	}
	return h.Sum64()
}
