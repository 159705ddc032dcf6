package router

import "sync/atomic"

// atomicCounter is a thin wrapper around atomic.Uint64 giving the router's
// load and bookkeeping counters a saturating subtract, which sync/atomic
// does not provide directly.
type atomicCounter struct {
	v atomic.Uint64
}

func (c *atomicCounter) load() uint64 {
	return c.v.Load()
}

func (c *atomicCounter) store(val uint64) {
	c.v.Store(val)
}

func (c *atomicCounter) add(delta uint64) uint64 {
	return c.v.Add(delta)
}

// saturatingSub decrements by delta, floored at zero rather than
// underflowing, so a removal racing against an already-zero load counter
// cannot wrap atomic.Uint64 around to near its max value.
func (c *atomicCounter) saturatingSub(delta uint64) {
	for {
		old := c.v.Load()
		var next uint64
		if delta > old {
			next = 0
		} else {
			next = old - delta
		}
		if c.v.CompareAndSwap(old, next) {
			return
		}
	}
}

// atomicBool is a thin wrapper around atomic.Bool, used for the router's
// cached hotspot flag so routeIntelligent can read it without taking mu.
type atomicBool struct {
	v atomic.Bool
}

func (b *atomicBool) load() bool {
	return b.v.Load()
}

func (b *atomicBool) store(val bool) {
	b.v.Store(val)
}
