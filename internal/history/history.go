// Package history provides bounded undo/redo over full board states.
// Snapshots are deep copies: restoring one can never alias the live
// board.
package history

import "github.com/staffyard/staffyard/internal/board"

// DefaultLimit is the maximum number of undo steps retained.
const DefaultLimit = 50

// Manager holds the past and future snapshot stacks for one board
// session. It is not safe for concurrent use; the owning session
// serializes access.
type Manager struct {
	limit  int
	past   []*board.State
	future []*board.State
}

// NewManager returns a Manager bounded to limit past entries. A limit
// of zero or less uses DefaultLimit.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Snapshot pushes a deep copy of the pre-mutation state onto the past
// stack and invalidates the future stack: redo history is only valid
// along the path that was just undone, so any new mutation discards it.
// The oldest entry is evicted once the past stack exceeds the limit.
func (m *Manager) Snapshot(cur *board.State) {
	m.past = append(m.past, cur.Clone())
	if len(m.past) > m.limit {
		m.past = m.past[len(m.past)-m.limit:]
	}
	m.future = nil
}

// Undo pops the most recent past state and returns it for the caller to
// apply, pushing a deep copy of the current state onto the front of the
// future stack. Returns nil when there is nothing to undo.
func (m *Manager) Undo(cur *board.State) *board.State {
	if len(m.past) == 0 {
		return nil
	}
	prev := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]*board.State{cur.Clone()}, m.future...)
	return prev
}

// Redo is the mirror of Undo over the future stack.
func (m *Manager) Redo(cur *board.State) *board.State {
	if len(m.future) == 0 {
		return nil
	}
	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, cur.Clone())
	return next
}

// Clear empties both stacks. Used when a session loads a different year.
func (m *Manager) Clear() {
	m.past = nil
	m.future = nil
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool { return len(m.past) > 0 }

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Depth returns the current past-stack size.
func (m *Manager) Depth() int { return len(m.past) }
