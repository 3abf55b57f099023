package navigation

import (
	"time"

	"github.com/prosperva/gridstate/internal/shared/types"
)

// DefaultMaxAge is the pruning threshold applied when a caller does not
// specify one. History older than this is considered abandoned.
const DefaultMaxAge = 30 * time.Minute

// Stack is the LIFO history of captured grid states.
//
// It is a single global sequence per session, not per grid: pushes and
// pops for different grids interleave freely and pop always returns the
// most recently pushed snapshot not yet popped. Not safe for concurrent
// use; the owning store serializes access.
type Stack struct {
	entries []types.NavigationSnapshot
}

// NewStack creates an empty navigation stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push appends a snapshot to the top of the stack. Depth is unbounded;
// pruning is the only bound on growth.
func (s *Stack) Push(snapshot types.NavigationSnapshot) {
	s.entries = append(s.entries, snapshot)
}

// Pop removes and returns the most recently pushed snapshot. The second
// return is false when the stack is empty, in which case nothing is
// mutated.
func (s *Stack) Pop() (types.NavigationSnapshot, bool) {
	if len(s.entries) == 0 {
		return types.NavigationSnapshot{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns the top snapshot without removing it.
func (s *Stack) Peek() (types.NavigationSnapshot, bool) {
	if len(s.entries) == 0 {
		return types.NavigationSnapshot{}, false
	}
	return s.entries[len(s.entries)-1].Clone(), true
}

// Clear empties the stack. Active grid state is untouched.
func (s *Stack) Clear() {
	s.entries = nil
}

// Depth returns the number of snapshots on the stack.
func (s *Stack) Depth() int {
	return len(s.entries)
}

// Prune removes every snapshot whose age at now meets or exceeds maxAge,
// preserving the relative order of survivors. Retained snapshots are
// never mutated. Returns the number of snapshots removed. A non-positive
// maxAge falls back to DefaultMaxAge.
func (s *Stack) Prune(maxAge time.Duration, now time.Time) int {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	kept := s.entries[:0]
	for _, entry := range s.entries {
		if now.Sub(entry.Timestamp) < maxAge {
			kept = append(kept, entry)
		}
	}
	removed := len(s.entries) - len(kept)
	s.entries = kept
	return removed
}

// Snapshot returns a deep copy of the stack contents, oldest first.
// Used at the persistence boundary.
func (s *Stack) Snapshot() []types.NavigationSnapshot {
	out := make([]types.NavigationSnapshot, len(s.entries))
	for i, entry := range s.entries {
		out[i] = entry.Clone()
	}
	return out
}

// Restore replaces the stack contents with a deep copy of the given
// snapshots, oldest first. A nil slice resets the stack to empty.
func (s *Stack) Restore(snapshots []types.NavigationSnapshot) {
	if len(snapshots) == 0 {
		s.entries = nil
		return
	}
	s.entries = make([]types.NavigationSnapshot, len(snapshots))
	for i, snapshot := range snapshots {
		s.entries[i] = snapshot.Clone()
	}
}
