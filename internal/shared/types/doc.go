// Package types provides shared data structures for the grid-state service.
//
// This package defines the core types used across all components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - GridState: Complete interaction state of one grid view
//   - GridStateUpdate: Partial state for merge-style updates
//   - NavigationSnapshot: Captured state plus routing metadata
//   - SessionPayload: The persisted subset of a session's store
//
// Request Types:
//   - PushNavigationRequest, PruneRequest: History operations
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	state := types.DefaultGridState()
//	page := 2
//	state = types.GridStateUpdate{Page: &page}.ApplyTo(state)
package types
