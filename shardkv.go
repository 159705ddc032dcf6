// Package shardkv implements a concurrent, in-memory, ordered key-value
// store partitioned across N independent shards for parallel access.
//
// A Store hashes each int64 key to a natural partition with a fixed
// MurmurHash3 finalizer, then asks a pluggable Router whether to honor
// that placement or steer the write elsewhere to counter load skew or an
// adversarial key distribution. A redirect index keeps reads and removes
// consistent with whatever the router decided, and range scans visit every
// partition that can hold matching keys, so the store behaves like a single
// ordered map from every caller's point of view regardless of how the keys
// are actually laid out underneath.
//
//	store := shardkv.New[string](16, shardkv.Intelligent)
//	store.Put(42, "hello")
//	v, ok := store.Get(42)
//	for _, e := range store.Range(0, 100) {
//	    fmt.Println(e.Key, e.Value)
//	}
package shardkv

import (
	"github.com/google/uuid"

	"github.com/dreamware/shardkv/internal/router"
	"github.com/dreamware/shardkv/internal/store"
)

// Strategy selects how the store routes a key to a partition. See the
// constants below for the full set and their tradeoffs.
type Strategy = router.Strategy

const (
	// StaticHash always uses a key's natural partition.
	StaticHash = router.StaticHash
	// LoadAware redirects away from partitions under disproportionate load.
	LoadAware = router.LoadAware
	// ConsistentHash routes through a virtual-node ring, minimizing
	// reshuffling when partitions are added or removed.
	ConsistentHash = router.ConsistentHash
	// Intelligent is the adaptive hybrid default.
	Intelligent = router.Intelligent
)

// Option configures a Store at construction time.
type Option = router.Option

// WithClock and WithRandSource are re-exported from internal/router so
// callers can inject deterministic time and randomness sources without
// reaching into an internal package.
var (
	WithClock      = router.WithClock
	WithRandSource = router.WithRandSource
)

// Entry is one key-value pair returned by Range.
type Entry[V any] struct {
	Key   int64
	Value V
}

// Stats is a point-in-time snapshot of a Store's size, balance and
// redirect-index health.
type Stats = store.Stats

// PartitionStats is one partition's contribution to a Stats snapshot.
type PartitionStats = store.PartitionStats

// Store is a concurrent, ordered, partitioned key-value store keyed by
// int64 with an arbitrary value type V.
type Store[V any] struct {
	id          uuid.UUID
	coordinator *store.Coordinator[V]
}

// New creates a Store with n partitions routed by strategy. It panics if n
// is not positive, since a store with zero partitions cannot hold data;
// callers that need to validate n before committing to it should do so
// before calling New.
func New[V any](n int, strategy Strategy, opts ...Option) *Store[V] {
	c, err := store.New[V](n, strategy, opts...)
	if err != nil {
		panic(err)
	}
	return &Store[V]{id: uuid.New(), coordinator: c}
}

// ID returns this store instance's unique identifier, useful for tagging
// logs and metrics when multiple stores run in the same process.
func (s *Store[V]) ID() uuid.UUID {
	return s.id
}

// NumPartitions returns the store's current partition count.
func (s *Store[V]) NumPartitions() int {
	return s.coordinator.NumPartitions()
}

// Put inserts or updates key's value.
func (s *Store[V]) Put(key int64, value V) {
	s.coordinator.Put(key, value)
}

// Get retrieves key's value, if present.
func (s *Store[V]) Get(key int64) (V, bool) {
	return s.coordinator.Get(key)
}

// Contains reports whether key is present.
func (s *Store[V]) Contains(key int64) bool {
	return s.coordinator.Contains(key)
}

// Remove deletes key, reporting whether it was present.
func (s *Store[V]) Remove(key int64) bool {
	return s.coordinator.Remove(key)
}

// Range returns every key-value pair with lo <= key <= hi, sorted ascending
// by key. An empty result is returned if lo > hi.
func (s *Store[V]) Range(lo, hi int64) []Entry[V] {
	internal := s.coordinator.Range(lo, hi)
	out := make([]Entry[V], len(internal))
	for i, e := range internal {
		out[i] = Entry[V]{Key: e.Key, Value: e.Value}
	}
	return out
}

// Size returns the total number of keys across all partitions.
func (s *Store[V]) Size() int {
	return s.coordinator.Size()
}

// Clear removes every key from the store.
func (s *Store[V]) Clear() {
	s.coordinator.Clear()
}

// Stats returns a snapshot of the store's size, balance and redirect
// health.
func (s *Store[V]) Stats() Stats {
	return s.coordinator.Stats()
}

// AddPartition grows the store by one empty partition and rebuilds
// routing over the new partition count.
func (s *Store[V]) AddPartition() {
	s.coordinator.AddPartition()
}

// DropPartition removes the highest-indexed partition, redistributing its
// contents across the rest. It returns an error if only one partition
// remains.
func (s *Store[V]) DropPartition() error {
	return s.coordinator.DropPartition()
}

// Rebalance clears all redirects and returns every key to its natural
// partition under static hashing; the router's per-partition loads are
// recounted from the reinserted keys. The router's per-key
// redirect-throttling history is kept.
func (s *Store[V]) Rebalance() {
	s.coordinator.Rebalance()
}
