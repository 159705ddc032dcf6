// Package store implements the coordinator: the component that owns the
// partition array, the router, and the redirect index, and sequences every
// public operation across them.
//
// Grounded on original_source/c_src/src/parallel_avl.c's ParallelAVL
// functions (parallel_avl_insert/get/contains/remove/range_query and the
// dynamic-scaling trio), translated from its natural-shard-then-redirect-
// fallback search order into Go, and on
// internal/coordinator/shard_registry.go for the Go idiom of an RWMutex-
// guarded coordinator with copy-out accessors.
package store

import (
	"cmp"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"

	"github.com/dreamware/shardkv/internal/fingerprint"
	"github.com/dreamware/shardkv/internal/partition"
	"github.com/dreamware/shardkv/internal/redirect"
	"github.com/dreamware/shardkv/internal/router"
)

// ErrInvalidPartitionCount is returned by New when asked to build a
// coordinator with zero partitions.
var ErrInvalidPartitionCount = errors.New("store: partition count must be positive")

// ErrCannotDropLastPartition is returned by DropPartition when the
// coordinator holds exactly one partition: a store must always have at
// least one partition to hold data.
var ErrCannotDropLastPartition = errors.New("store: cannot drop the last partition")

// Coordinator owns the N partitions backing a single ordered key-value
// store, along with the router and redirect index that let it steer writes
// away from a natural partition while keeping reads, removes and range
// scans consistent with a single map.
//
// Concurrency model: normal operations (Put, Get, Contains,
// Remove, Range, Size) take mu for reading; topology changes (AddPartition,
// DropPartition, Rebalance) take mu for writing. This also gives
// Router.Rebuild exclusive access during a topology change without the
// router needing its own synchronization against concurrent Route calls.
type Coordinator[V any] struct {
	mu         sync.RWMutex
	partitions []*partition.Partition[V]
	router     *router.Router
	redirects  *redirect.Index

	hasRedirects    atomic.Bool
	topologyChanged atomic.Bool
	totalOps        atomic.Uint64
	redirectHits    atomic.Uint64
}

// New creates a coordinator over n partitions using the given router
// strategy. n must be positive.
func New[V any](n int, strategy router.Strategy, opts ...router.Option) (*Coordinator[V], error) {
	if n <= 0 {
		return nil, ErrInvalidPartitionCount
	}

	partitions := make([]*partition.Partition[V], n)
	for i := range partitions {
		partitions[i] = partition.New[V]()
	}

	return &Coordinator[V]{
		partitions: partitions,
		router:     router.New(n, strategy, opts...),
		redirects:  redirect.New(),
	}, nil
}

// NumPartitions returns the current partition count.
func (c *Coordinator[V]) NumPartitions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.partitions)
}

// Put inserts or updates key's value, routing it through the coordinator's
// router and recording a redirect if the write lands anywhere but key's
// natural partition.
func (c *Coordinator[V]) Put(key int64, value V) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.totalOps.Add(1)

	n := len(c.partitions)
	natural := fingerprint.NaturalPartition(key, n)
	target := c.router.Route(key)

	_, replaced := c.partitions[target].Insert(key, value)
	if replaced {
		return
	}

	c.router.RecordInsertion(target)
	if target != natural {
		c.redirects.Record(key, natural, target)
		c.hasRedirects.Store(true)
	}
}

// Get retrieves key's value, searching the natural partition first, then
// the redirect index, then (only once a topology change has occurred)
// every other partition.
func (c *Coordinator[V]) Get(key int64) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(key)
}

// Contains reports whether key is present, using the same search order as
// Get without paying for a value copy.
func (c *Coordinator[V]) Contains(key int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lookupLocked(key)
	return ok
}

func (c *Coordinator[V]) lookupLocked(key int64) (V, bool) {
	n := len(c.partitions)
	natural := fingerprint.NaturalPartition(key, n)

	if v, ok := c.partitions[natural].Get(key); ok {
		return v, true
	}

	hasRedirects := c.hasRedirects.Load()
	topologyChanged := c.topologyChanged.Load()
	if !hasRedirects && !topologyChanged {
		var zero V
		return zero, false
	}

	c.totalOps.Add(1)

	if hasRedirects {
		if actual, ok := c.redirects.Lookup(key); ok {
			c.redirectHits.Add(1)
			if v, ok := c.partitions[actual].Get(key); ok {
				return v, true
			}
		}
	}

	if topologyChanged {
		for i, p := range c.partitions {
			if i == natural {
				continue
			}
			if v, ok := p.Get(key); ok {
				return v, true
			}
		}
	}

	var zero V
	return zero, false
}

// Remove deletes key if present, returning whether it was found. It
// searches natural, then the redirect index, then (if the topology has
// changed) every other partition, mirroring Get's search order.
func (c *Coordinator[V]) Remove(key int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.totalOps.Add(1)

	n := len(c.partitions)
	natural := fingerprint.NaturalPartition(key, n)

	if c.partitions[natural].Remove(key) {
		c.router.RecordRemoval(natural)
		c.redirects.Remove(key)
		return true
	}

	if actual, ok := c.redirects.Lookup(key); ok {
		if c.partitions[actual].Remove(key) {
			c.router.RecordRemoval(actual)
			c.redirects.Remove(key)
			return true
		}
	}

	if c.topologyChanged.Load() {
		for i, p := range c.partitions {
			if i == natural {
				continue
			}
			if p.Remove(key) {
				c.router.RecordRemoval(i)
				return true
			}
		}
	}

	return false
}

// Size returns the total number of keys across every partition.
func (c *Coordinator[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, p := range c.partitions {
		total += p.Size()
	}
	return total
}

// Clear empties every partition and the redirect index, and resets the
// coordinator's operation counters.
func (c *Coordinator[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.partitions {
		p.Clear()
	}
	c.redirects.Clear()
	c.totalOps.Store(0)
	c.redirectHits.Store(0)
}

// Entry is one key-value pair returned by Range.
type Entry[V any] struct {
	Key   int64
	Value V
}

// Range returns every key-value pair with lo <= key <= hi, sorted
// ascending by key. Partitions whose bounds cannot intersect [lo, hi] are
// skipped entirely via Partition.Intersects, matching
// parallel_avl_range_query's per-shard pruning pass.
func (c *Coordinator[V]) Range(lo, hi int64) []Entry[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.totalOps.Add(1)

	if lo > hi {
		return nil
	}

	var results []Entry[V]
	for _, p := range c.partitions {
		if !p.Intersects(lo, hi) {
			continue
		}
		p.Range(lo, hi, func(e partition.Entry[V]) bool {
			results = append(results, Entry[V]{Key: e.Key, Value: e.Value})
			return true
		})
	}

	slices.SortFunc(results, func(a, b Entry[V]) int { return cmp.Compare(a.Key, b.Key) })
	return results
}
