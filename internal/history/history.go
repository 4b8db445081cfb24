// Package history keeps a bounded undo/redo stack of whole-state snapshots.
package history

import "backstage/internal/domain"

const DefaultLimit = 50

// Manager is not safe for concurrent use; callers serialize access.
type Manager struct {
	limit  int
	past   []domain.State
	future []domain.State
}

func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Record pushes the pre-mutation state and clears the redo stack. Only the
// most recent limit snapshots are kept.
func (m *Manager) Record(prev domain.State) {
	m.past = append(m.past, prev.Clone())
	if over := len(m.past) - m.limit; over > 0 {
		m.past = append([]domain.State(nil), m.past[over:]...)
	}
	m.future = nil
}

// Undo returns the previous snapshot and stashes cur for redo. ok is false
// when there is nothing to undo.
func (m *Manager) Undo(cur domain.State) (domain.State, bool) {
	if len(m.past) == 0 {
		return cur, false
	}
	last := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]domain.State{cur.Clone()}, m.future...)
	return last, true
}

// Redo reapplies the most recently undone snapshot.
func (m *Manager) Redo(cur domain.State) (domain.State, bool) {
	if len(m.future) == 0 {
		return cur, false
	}
	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, cur.Clone())
	return next, true
}

func (m *Manager) CanUndo() bool { return len(m.past) > 0 }
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Len reports the sizes of the undo and redo stacks.
func (m *Manager) Len() (past, future int) { return len(m.past), len(m.future) }

// Reset drops both stacks.
func (m *Manager) Reset() {
	m.past = nil
	m.future = nil
}
