package router

import "github.com/dreamware/shardkv/internal/fingerprint"

// routeLoadAware redirects away from an overloaded natural partition toward
// the globally least-loaded one, if that one is itself below the mean;
// otherwise it falls back to a pseudo-random partition. Every candidate
// redirect passes through the adversary-resistance throttle before being
// returned.
func (r *Router) routeLoadAware(key int64, natural int) int {
	stats := r.Stats()

	primaryLoad := r.loads[natural].load()
	if float64(primaryLoad) <= HotspotFactor*stats.Mean {
		return natural
	}

	best, minLoad := 0, r.loads[0].load()
	for i := 1; i < r.n; i++ {
		l := r.loads[i].load()
		if l < minLoad {
			best, minLoad = i, l
		}
	}

	var candidate int
	if float64(minLoad) < stats.Mean {
		candidate = best
	} else {
		candidate = r.randomPartition()
	}

	return r.applyRedirect(key, natural, candidate)
}

// routeConsistentHash routes to the first virtual node whose hash is >= the
// key's hash, wrapping to the first on overflow. Redirects away from
// natural still pass the adversary throttle, since a hostile key set could
// in principle be chosen to collide on ring position the same way it
// collides on fingerprint.
func (r *Router) routeConsistentHash(key int64, natural int) int {
	if len(r.vnodes) == 0 {
		return natural
	}

	// The ring is keyed by a second, independent hash of the virtual node
	// seed; the key itself is looked up by the same fixed fingerprint used
	// for natural-partition assignment, matching
	// original_source/c_src/src/router.c's route_consistent_hash, which
	// reuses router_hash(key) rather than introducing a second hash for
	// the key side of the lookup.
	h := fingerprint.Mix(key)
	dest := lookupRing(r.vnodes, h)

	if dest == natural {
		return natural
	}
	return r.applyRedirect(key, natural, dest)
}

// routeIntelligent refreshes the cached health state every adaptive-interval
// calls. While the interval has widened all the way to MaxCacheInterval
// (which refreshAdaptiveCache sets only when the cache is healthy) it returns
// the natural partition with no per-call work beyond the fingerprint and the
// call counter; otherwise it defers to LoadAware whenever the cached state
// shows a hotspot or a balance below 0.9.
func (r *Router) routeIntelligent(key int64, natural int) int {
	interval := r.adaptiveInterval.load()
	ops := r.opsSinceRefresh.add(1)
	if ops >= interval {
		r.opsSinceRefresh.store(0)
		r.refreshAdaptiveCache()
		interval = r.adaptiveInterval.load()
	}

	if interval >= MaxCacheInterval {
		return natural
	}

	if r.cachedHasHotspot.load() || r.loadCachedBalance() < 0.9 {
		return r.routeLoadAware(key, natural)
	}
	return natural
}

func (r *Router) loadCachedBalance() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cachedBalance
}

// refreshAdaptiveCache recomputes balance/hotspot and re-tunes the adaptive
// refresh interval: it ramps down toward MinCacheInterval under stress and
// back up toward MaxCacheInterval as balance recovers.
func (r *Router) refreshAdaptiveCache() {
	stats := r.Stats()

	r.mu.Lock()
	r.cachedBalance = stats.BalanceScore
	r.mu.Unlock()
	r.cachedHasHotspot.store(stats.HasHotspot)

	var next uint64
	switch {
	case stats.HasHotspot || stats.BalanceScore < 0.8:
		next = MinCacheInterval
	case stats.BalanceScore > 0.95:
		next = MaxCacheInterval
	default:
		// Linear ramp between 0.8 and 0.95, matching the C reference's
		// update_stats_cache interpolation (original_source/c_src/src/router.c).
		frac := (stats.BalanceScore - 0.8) / 0.15
		next = MinCacheInterval + uint64(frac*float64(MaxCacheInterval-MinCacheInterval))
	}
	r.adaptiveInterval.store(next)
}

// applyRedirect runs the adversary-resistance check before allowing a
// redirect away from natural. If the key has been redirected too many
// times within the cooldown window, the redirect is refused and natural is
// returned instead.
func (r *Router) applyRedirect(key int64, natural, candidate int) int {
	if candidate == natural {
		return natural
	}

	now := r.clock.Now()
	if r.throttle.recordAndCheck(key, now) {
		return candidate
	}

	r.suspiciousPatterns.add(1)
	r.blockedRedirects.add(1)
	return natural
}
