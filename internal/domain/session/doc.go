// Package session manages the per-client stores that hold grid view state.
//
// Each client session owns one store, created lazily on first access and
// keyed by a prefixed ULID session id. A session id that has been seen
// before rehydrates its persisted payload, which is how view state
// survives a page reload; a freshly minted id starts empty.
//
// Lifecycle:
//   - Acquire: lazily create or rehydrate the store for a session id
//   - End: the end-of-session hook; clears navigation history, keeps
//     active grid state, drops the in-memory store
//   - EvictIdle: bounds memory by dropping idle stores without ending
//     their sessions; persisted payloads survive
//
// Example Usage:
//
//	manager := session.NewManager(adapters, logger).WithDefaults(registry.DefaultState)
//	id, store := manager.Create()
//	store.UpdateGridState("orders", update)
//	manager.End(id)
package session
