// Package persistence implements the session-scoped storage boundary.
//
// Exactly two fields of a session's store survive a reload: the active
// grid-state table and the navigation stack. The Adapter interface is the
// serialization boundary mapping store state to that minimal payload and
// back; nothing else is ever written.
//
// Implementations:
//   - FileAdapter: gzip-compressed JSON file per session, atomic writes
//   - Memory: in-process payload for tests and disabled persistence
package persistence
