// Package fingerprint implements the fixed 64-bit key mixer that determines
// a key's natural partition.
//
// The mixer is the MurmurHash3 64-bit finalizer applied to the raw bit
// pattern of an int64 key. It is fixed bit-exactly so that natural-partition
// assignment is stable across processes and across upgrades: the redirect
// index and the coordinator's topology-change logic both depend on being
// able to recompute "where would this key live if nothing had ever
// redirected it" the same way every time.
//
// Do not change these constants. Changing them silently reshuffles every
// key's natural partition and breaks the invariant that a redirect entry
// recorded under one build remains meaningful under the next.
package fingerprint

const (
	mul1 = 0xff51afd7ed558ccd
	mul2 = 0xc4ceb9fe1a85ec53
)

// Mix applies the MurmurHash3 64-bit finalizer to the raw bit pattern of key.
func Mix(key int64) uint64 {
	h := uint64(key)
	h ^= h >> 33
	h *= mul1
	h ^= h >> 33
	h *= mul2
	h ^= h >> 33
	return h
}

// NaturalPartition returns fingerprint(key) mod n, the deterministic home
// of key under a partition count of n. n must be > 0.
func NaturalPartition(key int64, n int) int {
	return int(Mix(key) % uint64(n))
}
