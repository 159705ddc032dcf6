package store

import (
	"github.com/dreamware/shardkv/internal/fingerprint"
	"github.com/dreamware/shardkv/internal/partition"
	"github.com/dreamware/shardkv/internal/router"
)

// intelligentBalanceThreshold mirrors parallel_avl_add_shard's choice of
// ROUTER_INTELLIGENT over ROUTER_LOAD_AWARE once the cluster is already
// well balanced (original_source/c_src/src/parallel_avl.c).
const intelligentBalanceThreshold = 0.9

// AddPartition grows the coordinator by one empty partition and rebuilds
// the router over the new partition count, replacing whatever strategy was
// in use: LoadAware while the cluster's balance score is at most
// intelligentBalanceThreshold, Intelligent once it is above it, following
// the C reference's add-shard heuristic.
func (c *Coordinator[V]) AddPartition() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.partitions = append(c.partitions, partition.New[V]())

	strategy := router.LoadAware
	if c.router.Stats().BalanceScore > intelligentBalanceThreshold {
		strategy = router.Intelligent
	}

	c.router.Rebuild(len(c.partitions), strategy)
	c.topologyChanged.Store(true)
}

// DropPartition removes the highest-indexed partition, redistributing its
// contents across the remaining partitions under a freshly built
// Intelligent router, then garbage-collects any redirect entries the
// redistribution made stale. Every moved key loses its old redirect entry
// and gets a new one only if it lands away from its natural partition.
// Returns ErrCannotDropLastPartition if only one partition remains.
func (c *Coordinator[V]) DropPartition() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.partitions) <= 1 {
		return ErrCannotDropLastPartition
	}

	removed := c.partitions[len(c.partitions)-1]
	c.partitions = c.partitions[:len(c.partitions)-1]

	entries := removed.ExtractAll()

	c.router.Rebuild(len(c.partitions), router.Intelligent)
	c.topologyChanged.Store(true)

	n := len(c.partitions)
	for _, e := range entries {
		natural := fingerprint.NaturalPartition(e.Key, n)
		target := c.router.Route(e.Key)
		c.redirects.Remove(e.Key)
		c.partitions[target].Insert(e.Key, e.Value)
		c.router.RecordInsertion(target)
		if target != natural {
			c.redirects.Record(e.Key, natural, target)
			c.hasRedirects.Store(true)
		}
	}

	c.gcRedirectsLocked()
	return nil
}

// Rebalance extracts every key-value pair, clears all partitions and the
// redirect index, switches to StaticHash, and reinserts everything by
// natural partition alone, dropping every redirect and returning to the
// simplest possible routing, matching parallel_avl_force_rebalance.
func (c *Coordinator[V]) Rebalance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.partitions)
	var all []storeEntry[V]
	for i, p := range c.partitions {
		for _, e := range p.ExtractAll() {
			all = append(all, storeEntry[V]{key: e.Key, value: e.Value})
			c.router.RecordRemoval(i)
		}
	}

	c.redirects.Clear()
	c.router.Rebuild(n, router.StaticHash)

	for _, e := range all {
		target := fingerprint.NaturalPartition(e.key, n)
		c.partitions[target].Insert(e.key, e.value)
		c.router.RecordInsertion(target)
	}

	c.topologyChanged.Store(false)
	c.hasRedirects.Store(false)
}

// gcRedirectsLocked drops redirect entries that no longer change where a
// key routes, called with mu already held for writing.
func (c *Coordinator[V]) gcRedirectsLocked() {
	c.redirects.GC(func(key int64) int {
		return c.router.Route(key)
	})
}

// storeEntry is an unexported scratch type for Rebalance's extract-then-
// reinsert pass, distinct from the exported Entry used by Range.
type storeEntry[V any] struct {
	key   int64
	value V
}
