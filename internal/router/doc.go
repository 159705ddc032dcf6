// Package router implements the store's four routing strategies over a
// fixed key fingerprint:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                          Router                              │
//	│                                                               │
//	│  Route(key) ─┬─ StaticHash ──────────────────► natural        │
//	│              ├─ LoadAware ───► hotspot? ──► throttle ─► dest  │
//	│              ├─ ConsistentHash ─► ring lookup ─► throttle ──► │
//	│              └─ Intelligent ─► cached health? ─► (above)      │
//	│                                                               │
//	│  loads[]           atomic, one counter per partition          │
//	│  vnodes[]          sorted ring, built for ConsistentHash/      │
//	│                    Intelligent                                │
//	│  throttle          per-key consecutive-redirect history        │
//	└─────────────────────────────────────────────────────────────┘
//
// Every strategy but StaticHash can redirect a key away from its natural
// partition; every redirect away from natural passes through the
// throttling table so a hostile key sequence cannot force unbounded
// redirect churn on a single key.
//
// Concurrency is the coordinator's responsibility, not this package's: the
// store-wide topology lock held by internal/store during AddPartition,
// DropPartition and Rebalance already excludes concurrent Route calls for
// the duration of Router.Rebuild, so Rebuild mutates Router's fields
// directly under its own mu rather than swapping an atomic pointer.
package router
