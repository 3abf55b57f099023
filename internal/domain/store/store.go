package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prosperva/gridstate/internal/domain/grid"
	"github.com/prosperva/gridstate/internal/domain/navigation"
	"github.com/prosperva/gridstate/internal/infrastructure/logging"
	"github.com/prosperva/gridstate/internal/infrastructure/monitoring"
	"github.com/prosperva/gridstate/internal/infrastructure/persistence"
	"github.com/prosperva/gridstate/internal/shared/types"
)

// Event describes a state change published to session subscribers.
type Event struct {
	Type   string `json:"type"`
	GridID string `json:"gridId,omitempty"`
	Depth  int    `json:"depth,omitempty"`
}

// Event types published on mutation.
const (
	EventGridChanged       = "grid_changed"
	EventNavigationChanged = "navigation_changed"
)

// Publisher delivers change events to a session's subscribers.
type Publisher interface {
	Publish(sessionID string, event Event)
}

// Store is the composition root for one session: it owns the grid-state
// table and the navigation stack, wires the persistence adapter and is
// the only writer to either structure. Every public operation takes the
// store mutex, so all access is serialized through a single logical
// writer as the rest of the system assumes.
type Store struct {
	mu        sync.Mutex
	sessionID string
	table     *grid.Table
	stack     *navigation.Stack
	persist   persistence.Adapter
	clock     func() time.Time
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	events    Publisher
}

// New creates a store for one session. Call Init before use to rehydrate
// persisted state and prune stale history.
func New(sessionID string, persist persistence.Adapter, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		sessionID: sessionID,
		table:     grid.NewTable(),
		stack:     navigation.NewStack(),
		persist:   persist,
		clock:     time.Now,
		logger:    logger,
	}
}

// WithDefaults replaces the default-state source, e.g. with the preset
// registry. Must be called before Init.
func (s *Store) WithDefaults(defaults grid.DefaultsFunc) *Store {
	s.table = grid.NewTableWithDefaults(defaults)
	return s
}

// WithMetrics adds metrics tracking to the store.
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// WithEvents adds an event publisher notified on every mutation.
func (s *Store) WithEvents(events Publisher) *Store {
	s.events = events
	return s
}

// WithClock replaces the wall clock, for tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Init loads the persisted payload and prunes history left over from an
// abandoned session. Any load failure (no payload, unreadable, malformed)
// leaves both structures empty; it is never surfaced to the caller.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist != nil {
		payload, err := s.persist.Load()
		if err != nil {
			s.logger.Debug("No persisted session state, starting empty",
				zap.String("session_id", s.sessionID),
				zap.Error(err),
			)
		} else {
			s.table.Restore(payload.ActiveGridState)
			s.stack.Restore(payload.NavigationStack)
			s.logger.Info("Session state rehydrated",
				zap.String("session_id", s.sessionID),
				zap.Int("grids", s.table.Len()),
				zap.Int("stack_depth", s.stack.Depth()),
			)
		}
	}

	removed := s.stack.Prune(navigation.DefaultMaxAge, s.clock())
	if removed > 0 {
		s.logger.Info("Pruned stale navigation history on init",
			zap.String("session_id", s.sessionID),
			zap.Int("removed", removed),
		)
		s.persistLocked()
	}
	if s.metrics != nil {
		s.metrics.AddSnapshotsPruned(removed)
	}
}

// GetGridState returns the current state for gridID, fully defaulted for
// grids never written. Never fails.
func (s *Store) GetGridState(gridID string) types.GridState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IncGridRead()
	}
	return s.table.Get(gridID)
}

// UpdateGridState merges a partial update into the grid's state. Fields
// absent from the update are preserved from the existing state.
func (s *Store) UpdateGridState(gridID string, update types.GridStateUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.Apply(gridID, update)
	s.persistLocked()

	if s.metrics != nil {
		s.metrics.IncGridWrite("update")
	}
	s.publish(Event{Type: EventGridChanged, GridID: gridID})
}

// SetGridState stores state verbatim, replacing any prior entry in full.
func (s *Store) SetGridState(gridID string, state types.GridState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.Set(gridID, state)
	s.persistLocked()

	if s.metrics != nil {
		s.metrics.IncGridWrite("set")
	}
	s.publish(Event{Type: EventGridChanged, GridID: gridID})
}

// PushNavigation captures an independent copy of the grid's current state
// and appends it to the navigation stack. Later updates to the live state
// never reach the pushed snapshot.
func (s *Store) PushNavigation(gridID, returnPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := types.NavigationSnapshot{
		ID:         uuid.New().String(),
		GridID:     gridID,
		State:      s.table.Get(gridID),
		ReturnPath: returnPath,
		Timestamp:  s.clock(),
	}
	s.stack.Push(snapshot)
	s.persistLocked()

	if s.metrics != nil {
		s.metrics.IncNavigationPush()
	}
	s.publish(Event{Type: EventNavigationChanged, GridID: gridID, Depth: s.stack.Depth()})
}

// PopNavigation removes the most recent snapshot, writes its state back
// as the grid's current state (full replace) and returns it. Returns nil
// on an empty stack, mutating nothing.
func (s *Store) PopNavigation() *types.NavigationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.stack.Pop()
	if !ok {
		return nil
	}

	s.table.Set(snapshot.GridID, snapshot.State)
	s.persistLocked()

	if s.metrics != nil {
		s.metrics.IncNavigationPop()
	}
	s.publish(Event{Type: EventNavigationChanged, GridID: snapshot.GridID, Depth: s.stack.Depth()})
	return &snapshot
}

// ClearNavigationStack discards all history without touching active grid
// state.
func (s *Store) ClearNavigationStack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stack.Clear()
	s.persistLocked()
	s.publish(Event{Type: EventNavigationChanged, Depth: 0})
}

// PruneOldSnapshots removes snapshots older than maxAge, preserving the
// order of survivors. A non-positive maxAge uses the default threshold.
// Returns the number of snapshots removed.
func (s *Store) PruneOldSnapshots(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.stack.Prune(maxAge, s.clock())
	if removed > 0 {
		s.persistLocked()
		s.publish(Event{Type: EventNavigationChanged, Depth: s.stack.Depth()})
	}
	if s.metrics != nil {
		s.metrics.AddSnapshotsPruned(removed)
	}
	return removed
}

// Teardown is the end-of-session hook: it clears the navigation stack
// ONLY. Active grid state stays persisted so it can be rehydrated if the
// same session comes back; history is session-scoped and proactively
// discarded.
func (s *Store) Teardown() {
	s.ClearNavigationStack()
}

// Depth returns the current navigation stack depth.
func (s *Store) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Depth()
}

// GridCount returns the number of grids with stored state.
func (s *Store) GridCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Len()
}

// Payload returns the persisted subset of the store: exactly the active
// grid-state table and the navigation stack.
func (s *Store) Payload() *types.SessionPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloadLocked()
}

func (s *Store) payloadLocked() *types.SessionPayload {
	return &types.SessionPayload{
		ActiveGridState: s.table.Snapshot(),
		NavigationStack: s.stack.Snapshot(),
	}
}

// persistLocked writes the two-field payload. Best-effort: failures are
// logged and counted, never surfaced, and the in-memory mutation that
// triggered the write already took effect.
func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}

	if err := s.persist.Save(s.payloadLocked()); err != nil {
		s.logger.Warn("Failed to persist session state",
			zap.String("session_id", s.sessionID),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.IncPersistError()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.IncPersistWrite()
	}
}

func (s *Store) publish(event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(s.sessionID, event)
}
