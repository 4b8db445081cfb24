package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"testing"
	"time"

	"backstage/internal/app"
	"backstage/internal/domain"
	"backstage/internal/engine"
	"backstage/internal/store"
)

type testEnv struct {
	Session *app.Session
	Store   *store.Memory
	Ctx     context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	n := 0
	mem := store.NewMemory()
	ctx := context.Background()
	sess, err := app.Open(ctx, app.Options{
		Store: mem,
		Engine: engine.Engine{
			IDs: func() string { n++; return fmt.Sprintf("id-%d", n) },
			Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		},
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return testEnv{Session: sess, Store: mem, Ctx: ctx}
}

func (env testEnv) createShow(t *testing.T, name string) domain.Show {
	t.Helper()
	var show domain.Show
	_, err := env.Session.Mutate(env.Ctx, "create_show", func(s domain.State) (domain.State, error) {
		next, created, err := env.Session.Engine.CreateShow(s, domain.Show{Name: name})
		show = created
		return next, err
	})
	if err != nil {
		t.Fatalf("create show: %v", err)
	}
	return show
}

func TestMutatePersists(t *testing.T) {
	env := newTestEnv(t)
	show := env.createShow(t, "Revue")
	loaded, err := env.Store.Load(env.Ctx)
	if err != nil || loaded == nil {
		t.Fatalf("load: %v, %v", loaded, err)
	}
	if _, ok := loaded.FindShow(show.ID); !ok {
		t.Fatalf("saved document misses show")
	}
	if loaded.SavedAt == "" {
		t.Fatalf("saved_at not stamped")
	}
}

func TestFailedMutationLeavesNoHistory(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Session.Mutate(env.Ctx, "bad", func(s domain.State) (domain.State, error) {
		return s, errors.New("nope")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if env.Session.CanUndo() {
		t.Fatalf("failed mutation recorded history")
	}
}

func TestUndoRedoThroughSession(t *testing.T) {
	env := newTestEnv(t)
	before := env.Session.State()
	var after domain.State
	for i := 0; i < 3; i++ {
		env.createShow(t, fmt.Sprintf("show %d", i))
		after = env.Session.State()
	}
	for i := 0; i < 3; i++ {
		if ok, err := env.Session.Undo(env.Ctx); !ok || err != nil {
			t.Fatalf("undo %d: %v %v", i, ok, err)
		}
	}
	got := env.Session.State()
	if !reflect.DeepEqual(got.Shows, before.Shows) {
		t.Fatalf("undo mismatch: %+v", got.Shows)
	}
	if ok, _ := env.Session.Undo(env.Ctx); ok {
		t.Fatalf("expected nothing left to undo")
	}
	for i := 0; i < 3; i++ {
		if ok, err := env.Session.Redo(env.Ctx); !ok || err != nil {
			t.Fatalf("redo %d: %v %v", i, ok, err)
		}
	}
	got = env.Session.State()
	if !reflect.DeepEqual(got.Shows, after.Shows) {
		t.Fatalf("redo mismatch: %+v", got.Shows)
	}
}

func TestUndoRestoresExactStateWithMovingClock(t *testing.T) {
	n := 0
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mem := store.NewMemory()
	ctx := context.Background()
	sess, err := app.Open(ctx, app.Options{
		Store: mem,
		Engine: engine.Engine{
			IDs: func() string { n++; return fmt.Sprintf("id-%d", n) },
			Now: func() time.Time { clock = clock.Add(time.Minute); return clock },
		},
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	env := testEnv{Session: sess, Store: mem, Ctx: ctx}
	env.createShow(t, "First")
	before := sess.State()
	env.createShow(t, "Second")
	if ok, err := sess.Undo(ctx); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if got := sess.State(); !reflect.DeepEqual(got, before) {
		t.Fatalf("undo mismatch:\n got %+v\nwant %+v", got, before)
	}
	loaded, err := mem.Load(ctx)
	if err != nil || loaded == nil || loaded.SavedAt == "" {
		t.Fatalf("stored copy not stamped: %v, %v", loaded, err)
	}
}

func TestReplaceRenumbersOrders(t *testing.T) {
	env := newTestEnv(t)
	doc := domain.State{
		Shows: []domain.Show{{ID: "s1", Name: "Revue"}},
		Items: []domain.ShowItem{
			{ID: "a", ShowID: "s1", Kind: domain.KindSketch, Title: "A", Order: 4},
			{ID: "b", ShowID: "s1", Kind: domain.KindSketch, Title: "B", Order: 4},
			{ID: "c", ShowID: "s1", Kind: domain.KindSketch, Title: "C", Order: 9},
		},
	}
	st, err := env.Session.Replace(env.Ctx, doc)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	for i, it := range st.ItemsOf("s1") {
		if it.Order != i+1 {
			t.Fatalf("item %s has order %d at position %d", it.Title, it.Order, i+1)
		}
	}
	if doc.Items[2].Order != 9 {
		t.Fatalf("replace modified its input")
	}
}

func TestRestoreVersionIsUndoable(t *testing.T) {
	env := newTestEnv(t)
	env.createShow(t, "Early")
	v, err := env.Session.SaveVersion(env.Ctx, "premiere")
	if err != nil {
		t.Fatalf("save version: %v", err)
	}
	env.createShow(t, "Late")
	if len(env.Session.State().Shows) != 2 {
		t.Fatalf("expected 2 shows")
	}
	st, err := env.Session.RestoreVersion(env.Ctx, v.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(st.Shows) != 1 {
		t.Fatalf("restore did not apply: %+v", st.Shows)
	}
	if ok, err := env.Session.Undo(env.Ctx); !ok || err != nil {
		t.Fatalf("undo restore: %v %v", ok, err)
	}
	if len(env.Session.State().Shows) != 2 {
		t.Fatalf("undo did not bring back the pre-restore state")
	}

	list, err := env.Session.ListVersions(env.Ctx)
	if err != nil || len(list) != 1 || list[0].Label != "premiere" {
		t.Fatalf("list versions = %+v, %v", list, err)
	}
	if err := env.Session.DeleteVersion(env.Ctx, v.ID); err != nil {
		t.Fatalf("delete version: %v", err)
	}
	if _, err := env.Session.RestoreVersion(env.Ctx, v.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type failingStore struct {
	*store.Memory
}

func (failingStore) Save(context.Context, domain.State) error { return errors.New("disk full") }

func TestSaveFailureKeepsState(t *testing.T) {
	sess, err := app.Open(context.Background(), app.Options{
		Store:  failingStore{store.NewMemory()},
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	st, err := sess.Mutate(context.Background(), "create_show", func(s domain.State) (domain.State, error) {
		next, _, err := sess.Engine.CreateShow(s, domain.Show{Name: "Revue"})
		return next, err
	})
	if !errors.Is(err, app.ErrSave) {
		t.Fatalf("expected save error, got %v", err)
	}
	if len(st.Shows) != 1 || len(sess.State().Shows) != 1 {
		t.Fatalf("in-memory state lost after failed save")
	}
}
