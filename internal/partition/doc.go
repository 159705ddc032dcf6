// Package partition implements the fundamental storage unit for the sharded
// store: an independent ordered map with its own mutex, plus the atomic
// statistics and bounds that let the router and coordinator read load and
// key-range information without contending for that mutex.
//
// # Overview
//
// A partition is the atomic unit of data distribution, sometimes called a
// shard. Each partition owns a disjoint-by-convention slice of the key
// space; which slice is the router's job, not this package's — a partition
// will happily store any int64 key it is asked to.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            Partition[V]              │
//	├─────────────────────────────────────┤
//	│  tree: orderedMap[V] (google/btree)  │
//	│    - guarded by mu                   │
//	│    - O(log n) insert/remove/get      │
//	│  size, inserts, removes, lookups     │
//	│    - atomic, readable without mu     │
//	│  minKey, maxKey, hasKeys             │
//	│    - atomic, tightened on insert,    │
//	│      recomputed on remove            │
//	└─────────────────────────────────────┘
//
// # Concurrency Model
//
// A single mutex serializes all operations that touch the ordered map
// (Insert, Remove, Get, Contains, Range, ExtractAll, Clear). Statistics
// counters and bounds are additionally atomic, so Size, GetBounds,
// GetStats, and Intersects are lock-free and can be read concurrently with
// an in-progress mutating call — at the cost of being only approximate
// with respect to that call.
package partition
