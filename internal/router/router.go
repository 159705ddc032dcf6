// Package router implements the store's routing policy: a policy object
// that chooses a destination partition for each key under one of four
// strategies, with adversary-resistance features layered on top of all but
// StaticHash.
//
// There is no single prior analog for this package: it is grounded in
// ShardRegistry.GetShardForKey's "hash, then map to destination" shape
// plus the original_source/include/AdaptiveRouter.h reference
// implementation's strategy set and windowed-maintenance trigger.
package router

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/dreamware/shardkv/internal/fingerprint"
)

// Strategy selects how Router.Route picks a destination partition.
type Strategy int

const (
	// StaticHash always returns the natural partition. No other state is
	// consulted; this is the fastest and most predictable strategy, and
	// the one most vulnerable to an adversary that knows the fingerprint.
	StaticHash Strategy = iota
	// LoadAware starts from the natural partition and redirects away from
	// it when its load is disproportionate to the cluster mean.
	LoadAware
	// ConsistentHash routes via a ring of virtual nodes, so that adding
	// or removing partitions reassigns only a fraction of keys.
	ConsistentHash
	// Intelligent is the adaptive hybrid default: cheap when healthy,
	// falls back to LoadAware when not.
	Intelligent
)

// Fixed tuning constants for the routing strategies.
const (
	HotspotFactor           = 1.5
	VNodesPerPartition      = 16
	RedirectCooldown        = 100 * time.Millisecond
	MaxConsecutiveRedirects = 3
	MinCacheInterval        = 10
	MaxCacheInterval        = 500
	HistoryEviction         = 60 * time.Second

	// maintenanceWindow is the background-maintenance trigger period,
	// roughly every maintenanceWindow*N insertions, concretized from
	// original_source's WINDOW_SIZE in AdaptiveRouter.h.
	maintenanceWindow = 50
)

// Stats is a point-in-time, lock-free snapshot of routing statistics.
type Stats struct {
	Total              uint64
	Min                uint64
	Max                uint64
	Mean               float64
	BalanceScore       float64
	HasHotspot         bool
	SuspiciousPatterns uint64
	BlockedRedirects   uint64
}

// Router computes a destination partition for each key and records the
// load observations that LoadAware and Intelligent depend on.
//
// Concurrency model: per-partition load counters are atomic. The throttling
// table has its own mutex. The virtual-node table is written only at
// construction and at Rebuild (under mu) and is read by Route without mu.
type Router struct {
	mu       sync.Mutex
	strategy Strategy
	n        int
	loads    []atomicCounter

	vnodes []virtualNode // sorted by hash; built for ConsistentHash and Intelligent

	throttle *throttleTable

	recentInserts      []atomicCounter
	recentInsertsTotal atomicCounter
	suspiciousPatterns atomicCounter
	blockedRedirects   atomicCounter

	cachedHasHotspot atomicBool
	cachedBalance    float64 // protected by mu; approximate reads are acceptable
	adaptiveInterval atomicCounter
	opsSinceRefresh  atomicCounter

	rngMu sync.Mutex
	rng   *rand.Rand

	clock clockz.Clock
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithClock injects a clock, letting tests control the passage of time for
// redirect-cooldown and history-eviction logic deterministically — the same
// pattern streamz uses its fake clock for timer-driven tests.
func WithClock(c clockz.Clock) Option {
	return func(r *Router) { r.clock = c }
}

// WithRandSource fixes the pseudo-random source used by LoadAware's
// all-partitions-overloaded fallback. By default each Router gets its own
// generator seeded from the current time; tests can inject a fixed source
// for reproducible runs.
func WithRandSource(src rand.Source) Option {
	return func(r *Router) { r.rng = rand.New(src) }
}

// New creates a router over n partitions using strategy.
func New(n int, strategy Strategy, opts ...Option) *Router {
	r := &Router{
		strategy:      strategy,
		n:             n,
		loads:         make([]atomicCounter, n),
		recentInserts: make([]atomicCounter, n),
		throttle:      newThrottleTable(),
		clock:         clockz.RealClock,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	r.adaptiveInterval.store(MinCacheInterval)
	r.cachedBalance = 1.0

	for _, opt := range opts {
		opt(r)
	}

	if strategy == ConsistentHash || strategy == Intelligent {
		r.vnodes = buildVirtualNodes(n)
	}

	return r
}

// NumPartitions returns the partition count this router was built for.
func (r *Router) NumPartitions() int {
	return r.n
}

// Route returns the destination partition for key in [0, n).
func (r *Router) Route(key int64) int {
	natural := fingerprint.NaturalPartition(key, r.n)

	var dest int
	switch r.strategy {
	case StaticHash:
		dest = natural
	case LoadAware:
		dest = r.routeLoadAware(key, natural)
	case ConsistentHash:
		dest = r.routeConsistentHash(key, natural)
	case Intelligent:
		dest = r.routeIntelligent(key, natural)
	default:
		dest = natural
	}

	return dest
}

// RecordInsertion bumps the load counter for partition p and, every
// maintenanceWindow*n insertions, sweeps stale throttling entries.
func (r *Router) RecordInsertion(p int) {
	if p < 0 || p >= r.n {
		return // internal bug guard: out-of-range partition, silently clamped
	}
	r.loads[p].add(1)
	r.recentInserts[p].add(1)

	total := r.recentInsertsTotal.add(1)
	if total >= uint64(maintenanceWindow*r.n) {
		r.recentInsertsTotal.store(0)
		r.runMaintenance()
	}
}

// RecordRemoval decrements the load counter for partition p, saturating at
// zero rather than underflowing.
func (r *Router) RecordRemoval(p int) {
	if p < 0 || p >= r.n {
		return
	}
	r.loads[p].saturatingSub(1)
}

// runMaintenance evicts throttling entries older than HistoryEviction and
// zeroes the recent-insert accumulators.
func (r *Router) runMaintenance() {
	r.throttle.evictOlderThan(r.clock.Now().Add(-HistoryEviction))
	for i := range r.recentInserts {
		r.recentInserts[i].store(0)
	}
}

// Stats aggregates the router's current view of load distribution.
func (r *Router) Stats() Stats {
	total, min, max := uint64(0), uint64(math.MaxUint64), uint64(0)
	for i := range r.loads {
		l := r.loads[i].load()
		total += l
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	if r.n == 0 {
		min = 0
	}
	mean := 0.0
	if r.n > 0 {
		mean = float64(total) / float64(r.n)
	}

	balance, hotspot := r.balanceAndHotspot(mean, max)

	return Stats{
		Total:              total,
		Min:                min,
		Max:                max,
		Mean:               mean,
		BalanceScore:       balance,
		HasHotspot:         hotspot,
		SuspiciousPatterns: r.suspiciousPatterns.load(),
		BlockedRedirects:   r.blockedRedirects.load(),
	}
}

// balanceAndHotspot computes the balance score (max(0, 1 - sigma/mu), or 1
// if mu == 0) and hotspot flag (max load > HotspotFactor * mean) from a
// fresh pass over the loads.
func (r *Router) balanceAndHotspot(mean float64, max uint64) (float64, bool) {
	if mean == 0 {
		return 1.0, false
	}

	var variance float64
	for i := range r.loads {
		d := float64(r.loads[i].load()) - mean
		variance += d * d
	}
	if r.n > 0 {
		variance /= float64(r.n)
	}
	sigma := math.Sqrt(variance)

	balance := 1.0 - sigma/mean
	if balance < 0 {
		balance = 0
	}

	hotspot := float64(max) > HotspotFactor*mean
	return balance, hotspot
}

// Rebuild replaces the router's partition count and virtual-node table in
// place, used by the coordinator's add/drop/rebalance topology changes.
// Load counters for partitions below the old n are preserved; new
// partitions start at zero load. The throttling table is left untouched —
// a topology change does not reset adversary history.
func (r *Router) Rebuild(n int, strategy Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	newLoads := make([]atomicCounter, n)
	for i := 0; i < n && i < len(r.loads); i++ {
		newLoads[i].store(r.loads[i].load())
	}
	newRecent := make([]atomicCounter, n)

	r.loads = newLoads
	r.recentInserts = newRecent
	r.n = n
	r.strategy = strategy

	if strategy == ConsistentHash || strategy == Intelligent {
		r.vnodes = buildVirtualNodes(n)
	} else {
		r.vnodes = nil
	}
}

func (r *Router) randomPartition() int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Intn(r.n)
}
