package history_test

import (
	"fmt"
	"reflect"
	"testing"

	"backstage/internal/domain"
	"backstage/internal/history"
)

func stateN(n int) domain.State {
	s := domain.State{}
	s.Normalize()
	for i := 0; i < n; i++ {
		s.Shows = append(s.Shows, domain.Show{ID: fmt.Sprintf("s%d", i), Name: "show"})
	}
	return s
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := history.New(0)
	cur := stateN(0)
	states := []domain.State{cur}
	for i := 1; i <= 5; i++ {
		h.Record(cur)
		cur = stateN(i)
		states = append(states, cur)
	}
	for i := 0; i < 5; i++ {
		var ok bool
		cur, ok = h.Undo(cur)
		if !ok {
			t.Fatalf("undo %d failed", i)
		}
	}
	if !reflect.DeepEqual(cur, states[0]) {
		t.Fatalf("undo did not restore the initial state: %+v", cur)
	}
	if _, ok := h.Undo(cur); ok {
		t.Fatalf("expected empty undo stack")
	}
	for i := 0; i < 5; i++ {
		var ok bool
		cur, ok = h.Redo(cur)
		if !ok {
			t.Fatalf("redo %d failed", i)
		}
	}
	if !reflect.DeepEqual(cur, states[5]) {
		t.Fatalf("redo did not restore the last state: %+v", cur)
	}
	if h.CanRedo() {
		t.Fatalf("expected empty redo stack")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	h := history.New(0)
	h.Record(stateN(0))
	cur, _ := h.Undo(stateN(1))
	if !h.CanRedo() {
		t.Fatalf("expected redo available")
	}
	h.Record(cur)
	if h.CanRedo() {
		t.Fatalf("new mutation must clear redo")
	}
}

func TestLimit(t *testing.T) {
	h := history.New(3)
	for i := 0; i < 10; i++ {
		h.Record(stateN(i))
	}
	past, _ := h.Len()
	if past != 3 {
		t.Fatalf("expected 3 snapshots, got %d", past)
	}
	cur := stateN(10)
	for h.CanUndo() {
		cur, _ = h.Undo(cur)
	}
	if len(cur.Shows) != 7 {
		t.Fatalf("oldest kept snapshot should have 7 shows, got %d", len(cur.Shows))
	}
}
