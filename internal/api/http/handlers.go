package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prosperva/gridstate/internal/domain/preset"
	"github.com/prosperva/gridstate/internal/domain/session"
	"github.com/prosperva/gridstate/internal/infrastructure/logging"
	"github.com/prosperva/gridstate/internal/shared/id"
	"github.com/prosperva/gridstate/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	presets  *preset.Registry
	logger   *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(sessions *session.Manager, presets *preset.Registry, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		sessions: sessions,
		presets:  presets,
		logger:   logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "gridstate",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Stats(),
		"presets":  h.presets.Count(),
	})
}

// CreateSession mints a new session id and its empty store
func (h *Handlers) CreateSession(c *gin.Context) {
	sessionID, _ := h.sessions.Create()

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
	})
}

// ListSessions lists metadata for all in-memory sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	list := h.sessions.List()
	if list == nil {
		list = []types.SessionMetadata{}
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": list,
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns metadata for one session
func (h *Handlers) GetSession(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	s, found := h.sessions.Get(sessionID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":  sessionID,
		"grid_count":  s.GridCount(),
		"stack_depth": s.Depth(),
	})
}

// EndSession is the end-of-session lifecycle hook: it discards navigation
// history while leaving active grid state persisted for a possible return
// of the same session id.
func (h *Handlers) EndSession(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	ended := h.sessions.End(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"ended":      ended,
	})
}

// GetGridState returns the current state for a grid, fully defaulted for
// grids never written
func (h *Handlers) GetGridState(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	gridID := c.Param("gridId")

	state := h.sessions.Acquire(sessionID).GetGridState(gridID)

	c.JSON(http.StatusOK, gin.H{
		"gridId": gridID,
		"state":  state,
	})
}

// UpdateGridState merges a partial update into a grid's state
func (h *Handlers) UpdateGridState(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	gridID := c.Param("gridId")

	var update types.GridStateUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.sessions.Acquire(sessionID)
	s.UpdateGridState(gridID, update)

	c.JSON(http.StatusOK, gin.H{
		"gridId": gridID,
		"state":  s.GetGridState(gridID),
	})
}

// SetGridState replaces a grid's state verbatim
func (h *Handlers) SetGridState(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	gridID := c.Param("gridId")

	var state types.GridState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.sessions.Acquire(sessionID)
	s.SetGridState(gridID, state)

	c.JSON(http.StatusOK, gin.H{
		"gridId": gridID,
		"state":  s.GetGridState(gridID),
	})
}

// PushNavigation captures the grid's current state onto the history stack
func (h *Handlers) PushNavigation(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req types.PushNavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.sessions.Acquire(sessionID)
	s.PushNavigation(req.GridID, req.ReturnPath)

	c.JSON(http.StatusCreated, gin.H{
		"gridId": req.GridID,
		"depth":  s.Depth(),
	})
}

// PopNavigation restores the most recent snapshot as the grid's current
// state. An empty stack is not an error: 204, nothing mutated.
func (h *Handlers) PopNavigation(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	snapshot := h.sessions.Acquire(sessionID).PopNavigation()
	if snapshot == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshot": snapshot,
	})
}

// ClearNavigation empties the history stack without touching grid state
func (h *Handlers) ClearNavigation(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	h.sessions.Acquire(sessionID).ClearNavigationStack()

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"depth":      0,
	})
}

// PruneNavigation removes snapshots older than the requested age
// (default 30 minutes)
func (h *Handlers) PruneNavigation(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req types.PruneRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	s := h.sessions.Acquire(sessionID)
	removed := s.PruneOldSnapshots(time.Duration(req.MaxAgeMs) * time.Millisecond)

	c.JSON(http.StatusOK, gin.H{
		"removed": removed,
		"depth":   s.Depth(),
	})
}

// ListPresets lists all shipped view presets
func (h *Handlers) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"presets": h.presets.List(),
	})
}

// GetPreset returns the default state for one grid, preset-completed when
// a preset exists
func (h *Handlers) GetPreset(c *gin.Context) {
	gridID := c.Param("gridId")

	p, found := h.presets.Get(gridID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no preset for grid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preset": p,
		"state":  p.DefaultState(),
	})
}

// sessionID validates the session id path parameter. Session ids name
// state files, so arbitrary input is rejected before it reaches storage.
func (h *Handlers) sessionID(c *gin.Context) (string, bool) {
	sessionID := c.Param("id")
	if !id.IsValidSessionID(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return "", false
	}
	return sessionID, true
}
