package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStorePutGetListDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	if _, err := s.Put(ctx, "shows/a.json", strings.NewReader(`{"a":1}`), "application/json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := s.Put(ctx, "shows/a.json", strings.NewReader(`{"a":2}`), "application/json")
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if info.Size != 7 {
		t.Fatalf("expected size 7, got %d", info.Size)
	}
	if _, err := s.Put(ctx, "other/b.json", strings.NewReader(`{}`), ""); err != nil {
		t.Fatalf("put b: %v", err)
	}

	rc, err := s.Get(ctx, "shows/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != `{"a":2}` {
		t.Fatalf("unexpected content %s", data)
	}

	list, err := s.List(ctx, "shows/")
	if err != nil || len(list) != 1 || list[0].Key != "shows/a.json" {
		t.Fatalf("list = %+v, %v", list, err)
	}
	if err := s.Delete(ctx, "shows/a.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "shows/a.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	for _, key := range []string{"", "../x", "/etc/passwd"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), ""); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
