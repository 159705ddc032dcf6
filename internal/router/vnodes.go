package router

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// virtualNode is one anchor on the consistent-hash ring.
type virtualNode struct {
	hash      uint64
	partition int
}

// secondHash is a second, independent 64-bit hash used for virtual-node
// placement, kept deliberately distinct from the MurmurHash3 finalizer in
// internal/fingerprint so that the ring's structure does not inherit the
// fingerprint's exact collision pattern.
func secondHash(seed int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	return xxhash.Sum64(buf[:])
}

// buildVirtualNodes lays out VNodesPerPartition virtual nodes per
// partition, keyed by secondHash(shard*16 + vnode), and returns them
// sorted ascending by hash for the ring's binary search.
func buildVirtualNodes(n int) []virtualNode {
	nodes := make([]virtualNode, 0, n*VNodesPerPartition)
	for shard := 0; shard < n; shard++ {
		for v := 0; v < VNodesPerPartition; v++ {
			seed := int64(shard*VNodesPerPartition + v)
			nodes = append(nodes, virtualNode{
				hash:      secondHash(seed),
				partition: shard,
			})
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].hash < nodes[j].hash })
	return nodes
}

// lookupRing returns the partition of the first virtual node whose hash is
// >= keyHash, wrapping to the first node on overflow.
func lookupRing(nodes []virtualNode, keyHash uint64) int {
	idx := sort.Search(len(nodes), func(i int) bool { return nodes[i].hash >= keyHash })
	if idx == len(nodes) {
		idx = 0
	}
	return nodes[idx].partition
}
