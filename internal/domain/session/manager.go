package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prosperva/gridstate/internal/domain/grid"
	"github.com/prosperva/gridstate/internal/domain/store"
	"github.com/prosperva/gridstate/internal/infrastructure/logging"
	"github.com/prosperva/gridstate/internal/infrastructure/monitoring"
	"github.com/prosperva/gridstate/internal/infrastructure/persistence"
	"github.com/prosperva/gridstate/internal/shared/id"
	"github.com/prosperva/gridstate/internal/shared/types"
)

// AdapterFactory builds the persistence adapter for one session. The
// default factory hands out file adapters under the configured state
// directory; tests swap in memory adapters.
type AdapterFactory func(sessionID string) persistence.Adapter

// Manager owns one store per client session, creating them lazily and
// rehydrating persisted state for session ids that have been seen before
// (the reload case).
type Manager struct {
	stores    sync.Map // sessionID -> *entry
	adapters  AdapterFactory
	defaults  grid.DefaultsFunc
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	events    store.Publisher
	clock     func() time.Time
	mu        sync.Mutex
	active    int
	lastEnded *time.Time
}

type entry struct {
	store      *store.Store
	createdAt  time.Time
	mu         sync.Mutex
	lastAccess time.Time
}

func (e *entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastAccess = now
	e.mu.Unlock()
}

func (e *entry) accessed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastAccess
}

// NewManager creates a session manager.
func NewManager(adapters AdapterFactory, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if adapters == nil {
		adapters = func(string) persistence.Adapter { return persistence.NewMemory() }
	}
	return &Manager{
		adapters: adapters,
		logger:   logger,
		clock:    time.Now,
	}
}

// WithDefaults sets the default-state source wired into every store.
func (m *Manager) WithDefaults(defaults grid.DefaultsFunc) *Manager {
	m.defaults = defaults
	return m
}

// WithMetrics adds metrics tracking to the manager and its stores.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithEvents sets the publisher wired into every store.
func (m *Manager) WithEvents(events store.Publisher) *Manager {
	m.events = events
	return m
}

// WithClock replaces the wall clock, for tests.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	m.clock = clock
	return m
}

// Create mints a new session id and its store.
func (m *Manager) Create() (string, *store.Store) {
	sessionID := id.NewSessionID().String()
	return sessionID, m.Acquire(sessionID)
}

// Acquire returns the store for a session id, creating and initializing
// it on first sight. A previously seen id rehydrates from its persisted
// payload; an unknown id simply starts empty. Never fails.
func (m *Manager) Acquire(sessionID string) *store.Store {
	now := m.clock()

	if cached, ok := m.stores.Load(sessionID); ok {
		e := cached.(*entry)
		e.touch(now)
		return e.store
	}

	s := store.New(sessionID, m.adapters(sessionID), m.logger)
	if m.defaults != nil {
		s.WithDefaults(m.defaults)
	}
	if m.metrics != nil {
		s.WithMetrics(m.metrics)
	}
	if m.events != nil {
		s.WithEvents(m.events)
	}
	s.WithClock(m.clock)

	e := &entry{store: s, createdAt: now, lastAccess: now}
	if actual, loaded := m.stores.LoadOrStore(sessionID, e); loaded {
		// Another request won the race; use its store.
		existing := actual.(*entry)
		existing.touch(now)
		return existing.store
	}

	s.Init()
	m.trackActive(+1)
	m.logger.Info("Session store created", zap.String("session_id", sessionID))
	return s
}

// End runs the end-of-session hook for a session: the navigation stack is
// cleared (and the cleared payload persisted), active grid state is kept,
// and the in-memory store is dropped. Ending an unknown session is a
// no-op.
func (m *Manager) End(sessionID string) bool {
	cached, ok := m.stores.LoadAndDelete(sessionID)
	if !ok {
		return false
	}

	e := cached.(*entry)
	e.store.Teardown()
	m.trackActive(-1)

	now := m.clock()
	m.mu.Lock()
	m.lastEnded = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSessionsEnded()
	}
	m.logger.Info("Session ended", zap.String("session_id", sessionID))
	return true
}

// EvictIdle drops in-memory stores idle for longer than maxIdle. Their
// persisted payloads remain, so a returning session id rehydrates; this
// only bounds memory, it is not the end-of-session hook.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	now := m.clock()
	var evicted int

	m.stores.Range(func(key, value interface{}) bool {
		e := value.(*entry)
		if now.Sub(e.accessed()) >= maxIdle {
			if _, ok := m.stores.LoadAndDelete(key); ok {
				m.trackActive(-1)
				evicted++
			}
		}
		return true
	})

	if evicted > 0 {
		m.logger.Info("Evicted idle session stores", zap.Int("count", evicted))
	}
	return evicted
}

// Get returns the store for a session id without creating one.
func (m *Manager) Get(sessionID string) (*store.Store, bool) {
	cached, ok := m.stores.Load(sessionID)
	if !ok {
		return nil, false
	}
	return cached.(*entry).store, true
}

// List returns metadata for all in-memory sessions.
func (m *Manager) List() []types.SessionMetadata {
	var out []types.SessionMetadata

	m.stores.Range(func(key, value interface{}) bool {
		e := value.(*entry)
		out = append(out, types.SessionMetadata{
			ID:         key.(string),
			CreatedAt:  e.createdAt,
			LastAccess: e.accessed(),
			GridCount:  e.store.GridCount(),
			StackDepth: e.store.Depth(),
		})
		return true
	})
	return out
}

// Stats returns session manager statistics.
func (m *Manager) Stats() types.SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.SessionStats{
		ActiveSessions: m.active,
		LastEnded:      m.lastEnded,
	}
}

func (m *Manager) trackActive(delta int) {
	m.mu.Lock()
	m.active += delta
	count := m.active
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetSessionsActive(count)
	}
}
