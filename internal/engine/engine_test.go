package engine_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"backstage/internal/domain"
	"backstage/internal/engine"
)

type testEnv struct {
	Engine engine.Engine
	State  domain.State
	ShowID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	n := 0
	eng := engine.Engine{
		IDs: func() string { n++; return fmt.Sprintf("id-%d", n) },
		Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
	st, show, err := eng.CreateShow(domain.State{}, domain.Show{Name: "Revue", StartTime: "19:30"})
	if err != nil {
		t.Fatalf("create show: %v", err)
	}
	return &testEnv{Engine: eng, State: st, ShowID: show.ID}
}

func (env *testEnv) addItem(t *testing.T, kind domain.ItemKind, title string, roles ...domain.Role) domain.ShowItem {
	t.Helper()
	st, it, err := env.Engine.AddItem(env.State, env.ShowID, kind, engine.ItemDefaults{Title: title, DurationMin: 5, Roles: roles})
	if err != nil {
		t.Fatalf("add item %s: %v", title, err)
	}
	env.State = st
	return it
}

func assertContiguous(t *testing.T, s domain.State, showID string) {
	t.Helper()
	items := s.ItemsOf(showID)
	for i, it := range items {
		if it.Order != i+1 {
			t.Fatalf("order gap: item %s has order %d at position %d", it.ID, it.Order, i+1)
		}
	}
}

func titles(s domain.State, showID string) string {
	out := ""
	for _, it := range s.ItemsOf(showID) {
		out += it.Title
	}
	return out
}

func TestOrderStaysContiguous(t *testing.T) {
	env := newTestEnv(t)
	a := env.addItem(t, domain.KindSketch, "A")
	b := env.addItem(t, domain.KindSketch, "B")
	c := env.addItem(t, domain.KindBreak, "C")
	d := env.addItem(t, domain.KindFiller, "D")
	assertContiguous(t, env.State, env.ShowID)
	if got := titles(env.State, env.ShowID); got != "ABCD" {
		t.Fatalf("expected ABCD, got %s", got)
	}

	env.State = env.Engine.MoveItem(env.State, d.ID, a.ID)
	assertContiguous(t, env.State, env.ShowID)
	if got := titles(env.State, env.ShowID); got != "DABC" {
		t.Fatalf("move: expected DABC, got %s", got)
	}

	for _, tc := range []struct {
		order int
		want  string
	}{
		{order: 99, want: "DACB"},
		{order: -3, want: "BDAC"},
		{order: 3, want: "DABC"},
	} {
		order := tc.order
		st, _, err := env.Engine.UpdateItem(env.State, b.ID, engine.ItemPatch{Order: &order})
		if err != nil {
			t.Fatalf("update order %d: %v", order, err)
		}
		env.State = st
		assertContiguous(t, env.State, env.ShowID)
		if got := titles(env.State, env.ShowID); got != tc.want {
			t.Fatalf("order %d: expected %s, got %s", order, tc.want, got)
		}
	}

	st, err := env.Engine.RemoveItem(env.State, c.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertContiguous(t, st, env.ShowID)
	if len(st.ItemsOf(env.ShowID)) != 3 {
		t.Fatalf("expected 3 items after remove")
	}
}

func TestRenumberRepairsDuplicateOrders(t *testing.T) {
	env := newTestEnv(t)
	a := env.addItem(t, domain.KindSketch, "A")
	env.addItem(t, domain.KindSketch, "B")
	for i := range env.State.Items {
		env.State.Items[i].Order = 7
	}
	title := "A2"
	st, _, err := env.Engine.UpdateItem(env.State, a.ID, engine.ItemPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	assertContiguous(t, st, env.ShowID)
}

func TestOtherShowsUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.addItem(t, domain.KindSketch, "A")
	st, other, err := env.Engine.CreateShow(env.State, domain.Show{Name: "Other"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	st, x, err := env.Engine.AddItem(st, other.ID, domain.KindSketch, engine.ItemDefaults{Title: "X"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if x.Order != 1 {
		t.Fatalf("expected order 1 in new show, got %d", x.Order)
	}
	env.State = st
	b := env.addItem(t, domain.KindSketch, "B")
	if b.Order != 2 {
		t.Fatalf("expected order 2, got %d", b.Order)
	}
}

func TestMoveItemNoops(t *testing.T) {
	env := newTestEnv(t)
	a := env.addItem(t, domain.KindSketch, "A")
	env.addItem(t, domain.KindSketch, "B")
	for _, pair := range [][2]string{{a.ID, a.ID}, {a.ID, "missing"}, {"missing", a.ID}} {
		st := env.Engine.MoveItem(env.State, pair[0], pair[1])
		if got := titles(st, env.ShowID); got != "AB" {
			t.Fatalf("move %v changed order to %s", pair, got)
		}
	}
}

func TestBreakKindDropsStage(t *testing.T) {
	env := newTestEnv(t)
	a := env.addItem(t, domain.KindSketch, "A", domain.Role{Name: "King"})
	kind := domain.KindBreak
	st, it, err := env.Engine.UpdateItem(env.State, a.ID, engine.ItemPatch{Kind: &kind})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if it.Stage != nil {
		t.Fatalf("break kept its stage")
	}
	if _, _, err := env.Engine.UpdateItem(st, "missing", engine.ItemPatch{}); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func holders(it domain.ShowItem) map[string]int {
	out := map[string]int{}
	for _, r := range it.Stage.Roles {
		if r.PersonID != "" {
			out[r.PersonID]++
		}
	}
	return out
}

func TestAssignRoleUniqueness(t *testing.T) {
	env := newTestEnv(t)
	it := env.addItem(t, domain.KindSketch, "A", domain.Role{Name: "King"}, domain.Role{Name: "Queen"}, domain.Role{Name: "Fool"})
	roles := it.Stage.Roles

	steps := []struct{ person, key string }{
		{"p1", roles[0].ID},
		{"p1", roles[1].ID},
		{"p2", roles[1].ID},
		{"p1", roles[2].ID},
		{"p2", roles[0].ID},
		{"p3", "unknown"},
		{"p1", ""},
	}
	for _, step := range steps {
		st, err := env.Engine.AssignRole(env.State, it.ID, step.person, step.key)
		if err != nil {
			t.Fatalf("assign %v: %v", step, err)
		}
		env.State = st
		cur, _ := env.State.FindItem(it.ID)
		for p, n := range holders(cur) {
			if n > 1 {
				t.Fatalf("person %s holds %d roles after %v", p, n, step)
			}
		}
	}
	cur, _ := env.State.FindItem(it.ID)
	got := []string{cur.Stage.Roles[0].PersonID, cur.Stage.Roles[1].PersonID, cur.Stage.Roles[2].PersonID}
	if got[0] != "p2" || got[1] != "" || got[2] != "" {
		t.Fatalf("unexpected final roles %v", got)
	}
}

func TestAssignRoleByPosition(t *testing.T) {
	env := newTestEnv(t)
	it := env.addItem(t, domain.KindSketch, "A")
	// roles without ids, as stored by older documents
	for i := range env.State.Items {
		if env.State.Items[i].ID == it.ID {
			env.State.Items[i].Stage.Roles = []domain.Role{{Name: "A"}, {Name: "B"}}
		}
	}
	st, err := env.Engine.AssignRole(env.State, it.ID, "p1", "1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	cur, _ := st.FindItem(it.ID)
	if cur.Stage.Roles[1].PersonID != "p1" {
		t.Fatalf("positional key not resolved: %+v", cur.Stage.Roles)
	}
	st, _ = env.Engine.AssignRole(st, it.ID, "p1", "5")
	cur, _ = st.FindItem(it.ID)
	if cur.Stage.Roles[1].PersonID != "p1" {
		t.Fatalf("out of range key changed state")
	}
}

func TestAssignMicUniqueness(t *testing.T) {
	env := newTestEnv(t)
	it := env.addItem(t, domain.KindSketch, "A")
	steps := []struct{ ch, person string }{
		{"HS1", "p1"},
		{"HS2", "p1"},
		{"HS1", "p2"},
		{"m-1", "p2"},
		{"HS2", ""},
		{"", "p3"},
	}
	for _, step := range steps {
		st, err := env.Engine.AssignMic(env.State, it.ID, step.ch, step.person)
		if err != nil {
			t.Fatalf("assign mic %v: %v", step, err)
		}
		env.State = st
		cur, _ := env.State.FindItem(it.ID)
		seen := map[string]bool{}
		for _, p := range cur.Stage.Mics {
			if seen[p] {
				t.Fatalf("person %s on two channels after %v", p, step)
			}
			seen[p] = true
		}
	}
	cur, _ := env.State.FindItem(it.ID)
	if len(cur.Stage.Mics) != 1 || cur.Stage.Mics["m-1"] != "p2" {
		t.Fatalf("unexpected mics %v", cur.Stage.Mics)
	}
}

func TestRoleAndMicOptions(t *testing.T) {
	env := newTestEnv(t)
	it := env.addItem(t, domain.KindSketch, "A",
		domain.Role{Name: "King", NeedsMic: true},
		domain.Role{Name: "Queen", NeedsMic: true},
		domain.Role{Name: "Extra"})
	people := []domain.Person{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	roles := it.Stage.Roles
	st, _ := env.Engine.AssignRole(env.State, it.ID, "p1", roles[0].ID)
	st, _ = env.Engine.AssignRole(st, it.ID, "p2", roles[1].ID)
	st, _ = env.Engine.AssignRole(st, it.ID, "p3", roles[2].ID)
	cur, _ := st.FindItem(it.ID)

	opts := engine.RoleOptions(cur, roles[0].ID, people)
	if len(opts) != 1 || opts[0].ID != "p1" {
		t.Fatalf("expected only the holder, got %+v", opts)
	}

	required := engine.RequiredMicPeople(cur)
	if len(required) != 2 || required[0] != "p1" || required[1] != "p2" {
		t.Fatalf("unexpected required set %v", required)
	}
	if engine.MicStatusOf(cur) != engine.MicRed {
		t.Fatalf("expected red without channels")
	}
	st, _ = env.Engine.AssignMic(st, it.ID, "HS1", "p1")
	cur, _ = st.FindItem(it.ID)
	if got := engine.MicOptions(cur, "HS2"); len(got) != 1 || got[0] != "p2" {
		t.Fatalf("unexpected mic options %v", got)
	}
	if got := engine.MicOptions(cur, "HS1"); len(got) != 2 {
		t.Fatalf("holder must stay listed, got %v", got)
	}
	st, _ = env.Engine.AssignMic(st, it.ID, "HS2", "p2")
	cur, _ = st.FindItem(it.ID)
	if !engine.MicComplete(cur) || engine.MicStatusOf(cur) != engine.MicGreen {
		t.Fatalf("expected complete mic coverage")
	}
}

func TestDeleteShowCascades(t *testing.T) {
	env := newTestEnv(t)
	env.addItem(t, domain.KindSketch, "A")
	st, _, _ := env.Engine.AddPerson(env.State, env.ShowID, domain.Person{FirstName: "Anna"})
	st, _, _ = env.Engine.AddMic(st, env.ShowID, domain.Mic{Name: "Mic 1"})
	st, _, _ = env.Engine.AddRehearsal(st, env.ShowID, domain.Rehearsal{})
	st, _, _ = env.Engine.AddPRItem(st, env.ShowID, domain.PRItem{Title: "Poster"})
	st, keepShow, _ := env.Engine.CreateShow(st, domain.Show{Name: "Keep"})
	st, _, _ = env.Engine.AddPerson(st, keepShow.ID, domain.Person{FirstName: "Bob"})

	st, err := env.Engine.DeleteShow(st, env.ShowID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(st.Shows) != 1 || len(st.Items) != 0 || len(st.Mics) != 0 || len(st.Rehearsals) != 0 || len(st.PRItems) != 0 {
		t.Fatalf("cascade incomplete: %+v", st)
	}
	if len(st.People) != 1 || st.People[0].ShowID != keepShow.ID {
		t.Fatalf("other show's people touched: %+v", st.People)
	}
	if _, err := env.Engine.DeleteShow(st, env.ShowID); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDuplicateShowRemapsReferences(t *testing.T) {
	env := newTestEnv(t)
	st, anna, _ := env.Engine.AddPerson(env.State, env.ShowID, domain.Person{FirstName: "Anna"})
	st, mic, _ := env.Engine.AddMic(st, env.ShowID, domain.Mic{Name: "Mic 1"})
	env.State = st
	it := env.addItem(t, domain.KindSketch, "A", domain.Role{Name: "King", NeedsMic: true})
	st, _ = env.Engine.AssignRole(env.State, it.ID, anna.ID, it.Stage.Roles[0].ID)
	st, _ = env.Engine.AssignMic(st, it.ID, mic.ID, anna.ID)

	st, dup, err := env.Engine.DuplicateShow(st, env.ShowID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == env.ShowID {
		t.Fatalf("duplicate kept show id")
	}
	original, _ := st.Bundle(env.ShowID)
	copied, _ := st.Bundle(dup.ID)
	ids := map[string]bool{}
	for _, b := range []domain.ShowBundle{original} {
		for _, x := range b.Items {
			ids[x.ID] = true
		}
		for _, x := range b.People {
			ids[x.ID] = true
		}
		for _, x := range b.Mics {
			ids[x.ID] = true
		}
	}
	if len(copied.Items) != 1 || len(copied.People) != 1 || len(copied.Mics) != 1 {
		t.Fatalf("copy incomplete: %+v", copied)
	}
	if ids[copied.Items[0].ID] || ids[copied.People[0].ID] || ids[copied.Mics[0].ID] {
		t.Fatalf("copy shares ids with original")
	}
	stage := copied.Items[0].Stage
	if stage.Roles[0].PersonID != copied.People[0].ID {
		t.Fatalf("role points at %s, want %s", stage.Roles[0].PersonID, copied.People[0].ID)
	}
	if stage.Mics[copied.Mics[0].ID] != copied.People[0].ID {
		t.Fatalf("mic map not remapped: %v", stage.Mics)
	}
}

func TestRemovePersonClearsReferences(t *testing.T) {
	env := newTestEnv(t)
	st, anna, _ := env.Engine.AddPerson(env.State, env.ShowID, domain.Person{FirstName: "Anna"})
	st, reh, _ := env.Engine.AddRehearsal(st, env.ShowID, domain.Rehearsal{Absentees: []string{"licht"}})
	env.State = st
	it := env.addItem(t, domain.KindSketch, "A", domain.Role{Name: "King"})
	st, _ = env.Engine.AssignRole(env.State, it.ID, anna.ID, it.Stage.Roles[0].ID)
	st, _ = env.Engine.AssignMic(st, it.ID, "HS1", anna.ID)
	st, _, _ = env.Engine.SetAbsentees(st, reh.ID, []string{anna.ID, "licht", anna.ID})

	st, err := env.Engine.RemovePerson(st, anna.ID)
	if err != nil {
		t.Fatalf("remove person: %v", err)
	}
	cur, _ := st.FindItem(it.ID)
	if cur.Stage.Roles[0].PersonID != "" || len(cur.Stage.Mics) != 0 {
		t.Fatalf("references left: %+v", cur.Stage)
	}
	if got := st.Rehearsals[0].Absentees; len(got) != 1 || got[0] != "licht" {
		t.Fatalf("unexpected absentees %v", got)
	}
}

func TestOperationsLeaveInputAlone(t *testing.T) {
	env := newTestEnv(t)
	it := env.addItem(t, domain.KindSketch, "A", domain.Role{Name: "King"})
	before := env.State.Clone()
	if _, err := env.Engine.AssignRole(env.State, it.ID, "p1", it.Stage.Roles[0].ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := env.Engine.AssignMic(env.State, it.ID, "HS1", "p1"); err != nil {
		t.Fatalf("assign mic: %v", err)
	}
	cur, _ := env.State.FindItem(it.ID)
	orig, _ := before.FindItem(it.ID)
	if cur.Stage.Roles[0].PersonID != orig.Stage.Roles[0].PersonID || len(cur.Stage.Mics) != 0 {
		t.Fatalf("input state mutated")
	}
}
