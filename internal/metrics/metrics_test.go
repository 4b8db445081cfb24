package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCountersExposed(t *testing.T) {
	m := New()
	m.Mutation("add_item")
	m.Mutation("add_item")
	m.Save(nil)
	m.Save(errors.New("boom"))
	m.HistoryStep("undo")
	m.UndoDepth(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`backstage_mutations_total{op="add_item"} 2`,
		`backstage_saves_total{result="error"} 1`,
		`backstage_history_steps_total{direction="undo"} 1`,
		`backstage_undo_depth 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in output:\n%s", want, body)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Mutation("x")
	m.Save(nil)
	m.HistoryStep("redo")
	m.UndoDepth(1)
}
