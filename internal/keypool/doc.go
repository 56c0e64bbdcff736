// Package keypool manages the shared pool of Alpha Vantage API keys.
//
// Each key carries a remaining-call quota. Keys live in one of two
// disjoint sets: active (usable, quota in [0, limit]) or expired
// (quota reset to the full limit, waiting for a pool swap). When the
// active set drains completely, the entire expired set is promoted
// back to active with full quotas.
//
// Selection follows a reserve-then-commit protocol so that the HTTP
// round trip never runs under the pool lock: Acquire reserves the key
// with the most remaining calls, and the caller later commits the
// outcome with Consume (success), Expire (provider soft block) or
// Release (transport failure, no quota charged).
//
// Pool membership is persisted through a Store after every mutation,
// so a restarted process or a concurrent reader of the state file
// always observes a completed operation.
package keypool
