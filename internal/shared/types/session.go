package types

import "time"

// SessionMetadata summarizes one live session for listing endpoints.
type SessionMetadata struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastAccess time.Time `json:"last_access"`
	GridCount  int       `json:"grid_count"`
	StackDepth int       `json:"stack_depth"`
}

// SessionStats contains session manager statistics.
type SessionStats struct {
	ActiveSessions int        `json:"active_sessions"`
	LastEnded      *time.Time `json:"last_ended,omitempty"`
}
