package partition

import "github.com/google/btree"

// treeDegree mirrors the degree teleport's sortcache package settled on for
// its btree.NewG trees: a good balance of node fan-out vs. pointer-chasing
// for in-memory, CPU-cache-resident trees.
const treeDegree = 8

// node is the item type stored in the underlying B-tree. Keeping key and
// value together (rather than using the key alone and a side map) avoids a
// second lookup on every read.
type node[V any] struct {
	key   int64
	value V
}

func nodeLess[V any](a, b node[V]) bool {
	return a.key < b.key
}

// orderedMap is the ordered-map contract a partition needs: insert, remove,
// lookup, in-order range traversal, min/max key, size. It is
// deliberately the only file in this package that knows about google/btree,
// so the backing structure could be swapped (any ordered map with these
// operations satisfies the partition) without touching partition.go.
type orderedMap[V any] struct {
	tree *btree.BTreeG[node[V]]
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{tree: btree.NewG(treeDegree, nodeLess[V])}
}

// insert places or replaces the mapping for key, returning the previous
// value and whether one existed.
func (m *orderedMap[V]) insert(key int64, value V) (prev V, replaced bool) {
	old, existed := m.tree.ReplaceOrInsert(node[V]{key: key, value: value})
	if existed {
		return old.value, true
	}
	var zero V
	return zero, false
}

// remove deletes key if present, returning the removed value.
func (m *orderedMap[V]) remove(key int64) (V, bool) {
	removed, ok := m.tree.Delete(node[V]{key: key})
	if !ok {
		var zero V
		return zero, false
	}
	return removed.value, true
}

func (m *orderedMap[V]) get(key int64) (V, bool) {
	n, ok := m.tree.Get(node[V]{key: key})
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

func (m *orderedMap[V]) len() int {
	return m.tree.Len()
}

func (m *orderedMap[V]) min() (int64, bool) {
	n, ok := m.tree.Min()
	if !ok {
		return 0, false
	}
	return n.key, true
}

func (m *orderedMap[V]) max() (int64, bool) {
	n, ok := m.tree.Max()
	if !ok {
		return 0, false
	}
	return n.key, true
}

// ascendRange visits every key k with lo <= k <= hi in ascending order,
// stopping early if fn returns false.
func (m *orderedMap[V]) ascendRange(lo, hi int64, fn func(key int64, value V) bool) {
	if lo > hi {
		return
	}
	// AscendRange's upper bound is exclusive but Range is inclusive on both
	// ends, so probe one past hi unless that would overflow.
	if hi == int64(^uint64(0)>>1) {
		m.tree.AscendGreaterOrEqual(node[V]{key: lo}, func(n node[V]) bool {
			if n.key > hi {
				return false
			}
			return fn(n.key, n.value)
		})
		return
	}
	m.tree.AscendRange(node[V]{key: lo}, node[V]{key: hi + 1}, func(n node[V]) bool {
		return fn(n.key, n.value)
	})
}

// ascendAll visits every key in ascending order, stopping early if fn
// returns false. Used by ExtractAll.
func (m *orderedMap[V]) ascendAll(fn func(key int64, value V) bool) {
	m.tree.Ascend(func(n node[V]) bool {
		return fn(n.key, n.value)
	})
}

func (m *orderedMap[V]) clear() {
	m.tree.Clear(false)
}
