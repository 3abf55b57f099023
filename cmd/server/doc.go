// Package main is the entry point for the gridstate server.
//
// The server keeps per-session view state for data grids: filters, sort
// model, pagination, column layout, scroll position and selection, plus a
// navigation history stack that lets a client drill into a record and
// return to the exact view it left.
//
// The server provides:
//   - REST API for grid state and navigation history
//   - WebSocket streaming of state-change events
//   - View presets seeded from disk
//   - Per-session persistence across reloads
//   - Rate limiting and metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -port 8090 -state-dir /var/lib/gridstate -preset-dir ./presets
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
