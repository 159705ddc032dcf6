// Package redirect implements the auxiliary index that keeps a sharded
// store behaving like a single ordered map: whenever a write is steered
// away from a key's natural partition, the index remembers where it
// actually went so lookups and removes keep finding it. Range scans do not
// use the index; they visit every partition whose bounds overlap the range.
//
// Grounded on original_source/c_src/src/redirect_index.c: a single map
// behind one lock, atomic-flavored counters for total redirects and lookup
// hit rate, and a garbage collector that collects candidates for removal
// before mutating the map rather than deleting while iterating.
package redirect

import (
	"sync"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of the index's size and hit rate.
type Stats struct {
	TotalRedirects uint64
	Lookups        uint64
	Hits           uint64
	HitRate        float64
	IndexSize      int
}

// Index maps a key to the partition it was actually written to, for every
// key whose natural partition differs from where it lives.
type Index struct {
	mu        sync.RWMutex
	redirects map[int64]int

	totalRedirects atomic.Uint64
	lookups        atomic.Uint64
	hits           atomic.Uint64
}

// New creates an empty redirect index.
func New() *Index {
	return &Index{redirects: make(map[int64]int)}
}

// Record stores key's actual partition if it differs from natural. A
// natural write is not a redirect and is never recorded, matching
// redirect_index_record's no-op when natural_shard == actual_shard.
func (idx *Index) Record(key int64, natural, actual int) {
	if natural == actual {
		return
	}

	idx.mu.Lock()
	idx.redirects[key] = actual
	idx.mu.Unlock()

	idx.totalRedirects.Add(1)
}

// Lookup reports the partition a redirected key actually lives on, if any.
func (idx *Index) Lookup(key int64) (int, bool) {
	idx.lookups.Add(1)

	idx.mu.RLock()
	actual, ok := idx.redirects[key]
	idx.mu.RUnlock()

	if ok {
		idx.hits.Add(1)
	}
	return actual, ok
}

// Remove drops key's redirect entry, if present. Callers use this once a
// key has been deleted from the store so the index does not outlive it.
func (idx *Index) Remove(key int64) {
	idx.mu.Lock()
	delete(idx.redirects, key)
	idx.mu.Unlock()
}

// Clear empties the index and resets its cumulative counters.
func (idx *Index) Clear() {
	idx.mu.Lock()
	idx.redirects = make(map[int64]int)
	idx.mu.Unlock()

	idx.totalRedirects.Store(0)
	idx.lookups.Store(0)
	idx.hits.Store(0)
}

// CurrentPartitionFunc recomputes where a key would route today, used by GC
// to find entries that have become stale.
type CurrentPartitionFunc func(key int64) int

// GC removes every entry whose recorded actual partition matches what the
// key would route to right now: the redirect has become a no-op because
// re-routing (or a topology change) already sends the key there naturally.
// Matching redirect_index_gc, candidates are collected in a first pass and
// removed in a second so the map is never mutated mid-range.
func (idx *Index) GC(current CurrentPartitionFunc) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(idx.redirects) == 0 {
		return 0
	}

	stale := make([]int64, 0, len(idx.redirects))
	for key, actual := range idx.redirects {
		if current(key) == actual {
			stale = append(stale, key)
		}
	}

	for _, key := range stale {
		delete(idx.redirects, key)
	}
	return len(stale)
}

// Stats returns a snapshot of the index's cumulative counters and size.
func (idx *Index) Stats() Stats {
	lookups := idx.lookups.Load()
	hits := idx.hits.Load()

	var hitRate float64
	if lookups > 0 {
		hitRate = float64(hits) * 100.0 / float64(lookups)
	}

	idx.mu.RLock()
	size := len(idx.redirects)
	idx.mu.RUnlock()

	return Stats{
		TotalRedirects: idx.totalRedirects.Load(),
		Lookups:        lookups,
		Hits:           hits,
		HitRate:        hitRate,
		IndexSize:      size,
	}
}

// Len returns the number of currently redirected keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.redirects)
}
