// Package redirect holds the key-to-partition overrides produced when a
// router sends a write somewhere other than a key's natural partition.
//
//	┌───────────────────────────────────────────┐
//	│                  Index                     │
//	│  redirects: map[key]actualPartition        │
//	│  guarded by mu (sync.RWMutex)               │
//	│                                             │
//	│  Record(k, natural, actual)  — write path   │
//	│  Lookup(k) (actual, ok)      — read path    │
//	│  Remove(k)                   — delete path  │
//	│  GC(currentFn)                — reclaim      │
//	└───────────────────────────────────────────┘
//
// A coordinator consults Lookup after a miss in a key's natural partition,
// so a read or delete for a redirected key still finds it.
package redirect
