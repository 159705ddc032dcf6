// Package store ties partitions, routing and redirection together behind
// one coordinator:
//
//	┌───────────────────────────────────────────────────────────┐
//	│                       Coordinator[V]                       │
//	│                                                              │
//	│  partitions[0..n)   *partition.Partition[V]                 │
//	│  router             *router.Router                          │
//	│  redirects          *redirect.Index                         │
//	│                                                              │
//	│  Put/Get/Contains/Remove/Range  ── mu.RLock()               │
//	│  AddPartition/DropPartition/Rebalance ── mu.Lock()          │
//	└───────────────────────────────────────────────────────────┘
//
// The RWMutex is the coordinator's only lock: normal operations share it
// for reading (they still mutate per-partition and router state, but that
// state has its own finer-grained synchronization), and topology changes
// take it exclusively so no Route call or partition access can observe a
// half-rebuilt router or a partition array mid-resize.
package store
