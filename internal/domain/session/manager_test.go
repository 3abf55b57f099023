package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperva/gridstate/internal/infrastructure/persistence"
	"github.com/prosperva/gridstate/internal/shared/id"
	"github.com/prosperva/gridstate/internal/shared/types"
)

// sharedAdapters reuses one memory adapter per session id, so a second
// manager sees what the first persisted - the reload case.
func sharedAdapters() AdapterFactory {
	adapters := make(map[string]*persistence.Memory)
	return func(sessionID string) persistence.Adapter {
		if a, ok := adapters[sessionID]; ok {
			return a
		}
		a := persistence.NewMemory()
		adapters[sessionID] = a
		return a
	}
}

func intPtr(v int) *int { return &v }

func TestCreateMintsValidSessionID(t *testing.T) {
	m := NewManager(nil, nil)

	sessionID, s := m.Create()
	require.NotNil(t, s)
	assert.True(t, id.IsValidSessionID(sessionID))
	assert.Equal(t, sessionID, s.SessionID())
}

func TestAcquireReturnsSameStore(t *testing.T) {
	m := NewManager(nil, nil)

	first := m.Acquire("sess_a")
	first.UpdateGridState("orders", types.GridStateUpdate{Page: intPtr(3)})

	second := m.Acquire("sess_a")
	assert.Equal(t, 3, second.GetGridState("orders").Page)
	assert.Equal(t, 1, m.Stats().ActiveSessions)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(nil, nil)

	m.Acquire("sess_a").UpdateGridState("orders", types.GridStateUpdate{Page: intPtr(7)})

	other := m.Acquire("sess_b").GetGridState("orders")
	assert.Equal(t, 0, other.Page)
}

func TestReloadRehydratesFromPersistence(t *testing.T) {
	adapters := sharedAdapters()

	first := NewManager(adapters, nil)
	s := first.Acquire("sess_a")
	s.UpdateGridState("orders", types.GridStateUpdate{Page: intPtr(5)})
	s.PushNavigation("orders", "/orders")

	// A new manager with the same storage: same session id comes back.
	second := NewManager(adapters, nil)
	restored := second.Acquire("sess_a")

	assert.Equal(t, 5, restored.GetGridState("orders").Page)
	assert.Equal(t, 1, restored.Depth())
}

func TestEndClearsHistoryKeepsGridState(t *testing.T) {
	adapters := sharedAdapters()
	m := NewManager(adapters, nil)

	s := m.Acquire("sess_a")
	s.UpdateGridState("orders", types.GridStateUpdate{Page: intPtr(4)})
	s.PushNavigation("orders", "/orders")

	require.True(t, m.End("sess_a"))
	assert.Equal(t, 0, m.Stats().ActiveSessions)
	_, ok := m.Get("sess_a")
	assert.False(t, ok)

	// The same session id returning rehydrates grid state, but the
	// history was discarded by the end-of-session hook.
	returned := m.Acquire("sess_a")
	assert.Equal(t, 4, returned.GetGridState("orders").Page)
	assert.Equal(t, 0, returned.Depth())
}

func TestEndUnknownSession(t *testing.T) {
	m := NewManager(nil, nil)
	assert.False(t, m.End("sess_unknown"))
}

func TestEvictIdleKeepsPersistedState(t *testing.T) {
	adapters := sharedAdapters()
	now := time.Now()
	m := NewManager(adapters, nil).WithClock(func() time.Time { return now })

	s := m.Acquire("sess_a")
	s.UpdateGridState("orders", types.GridStateUpdate{Page: intPtr(2)})
	s.PushNavigation("orders", "/orders")

	// 20 minutes idle: enough to evict, young enough that the snapshot
	// survives the prune-on-init of the rehydrated store.
	m.WithClock(func() time.Time { return now.Add(20 * time.Minute) })
	assert.Equal(t, 1, m.EvictIdle(10*time.Minute))
	assert.Equal(t, 0, m.Stats().ActiveSessions)

	// Eviction is not session end: history survives rehydration.
	restored := m.Acquire("sess_a")
	assert.Equal(t, 2, restored.GetGridState("orders").Page)
	assert.Equal(t, 1, restored.Depth())
}

func TestListMetadata(t *testing.T) {
	m := NewManager(nil, nil)

	s := m.Acquire("sess_a")
	s.UpdateGridState("orders", types.GridStateUpdate{Page: intPtr(1)})
	s.PushNavigation("orders", "/orders")
	m.Acquire("sess_b")

	list := m.List()
	require.Len(t, list, 2)

	byID := make(map[string]types.SessionMetadata, len(list))
	for _, meta := range list {
		byID[meta.ID] = meta
	}
	assert.Equal(t, 1, byID["sess_a"].GridCount)
	assert.Equal(t, 1, byID["sess_a"].StackDepth)
	assert.Equal(t, 0, byID["sess_b"].GridCount)
}
