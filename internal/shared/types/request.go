package types

// PushNavigationRequest captures the current state of a grid before the
// UI drills into a detail view.
type PushNavigationRequest struct {
	GridID     string `json:"gridId" binding:"required"`
	ReturnPath string `json:"returnPath"`
}

// PruneRequest controls history pruning. MaxAgeMs <= 0 falls back to the
// default threshold.
type PruneRequest struct {
	MaxAgeMs int64 `json:"maxAgeMs"`
}

// WSMessage represents an inbound WebSocket message.
type WSMessage struct {
	Type string `json:"type"`
}
