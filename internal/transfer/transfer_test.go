package transfer_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"backstage/internal/blob"
	"backstage/internal/domain"
	"backstage/internal/transfer"
)

func seeded() domain.State {
	s := domain.State{
		Shows: []domain.Show{{ID: "s1", Name: "Revue"}},
		Items: []domain.ShowItem{{ID: "i1", ShowID: "s1", Kind: domain.KindSketch, Title: "A", Order: 1,
			Stage: &domain.Stage{
				Roles: []domain.Role{{ID: "r1", Name: "King", PersonID: "p1"}, {ID: "r2", Name: "Ghost", PersonID: "stale"}},
				Mics:  map[string]string{"HS1": "p1", "m1": "p1"},
			}}},
		People: []domain.Person{{ID: "p1", ShowID: "s1", FirstName: "Anna"}},
		Mics:   []domain.Mic{{ID: "m1", ShowID: "s1", Name: "Mic 1"}},
	}
	s.Normalize()
	return s
}

func counter() func() string {
	n := 0
	return func() string { n++; return fmt.Sprintf("new-%d", n) }
}

func TestImportTwiceYieldsDisjointShows(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc, err := transfer.Export(seeded(), "s1", now)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var buf bytes.Buffer
	if err := transfer.Encode(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := transfer.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	gen := counter()
	st := domain.State{}
	st, first := transfer.Import(st, decoded, gen)
	st, second := transfer.Import(st, decoded, gen)
	if first == second {
		t.Fatalf("imports share show id %s", first)
	}

	a, _ := st.Bundle(first)
	b, _ := st.Bundle(second)
	ids := func(bd domain.ShowBundle) map[string]bool {
		out := map[string]bool{bd.Show.ID: true}
		for _, x := range bd.Items {
			out[x.ID] = true
		}
		for _, x := range bd.People {
			out[x.ID] = true
		}
		for _, x := range bd.Mics {
			out[x.ID] = true
		}
		return out
	}
	aIDs, bIDs := ids(a), ids(b)
	for id := range aIDs {
		if bIDs[id] {
			t.Fatalf("id %s appears in both imports", id)
		}
	}
	for _, bd := range []domain.ShowBundle{a, b} {
		own := ids(bd)
		stage := bd.Items[0].Stage
		if !own[stage.Roles[0].PersonID] {
			t.Fatalf("role points outside its show: %s", stage.Roles[0].PersonID)
		}
		if stage.Roles[1].PersonID != "" {
			t.Fatalf("stale person should become empty, got %s", stage.Roles[1].PersonID)
		}
		for ch, p := range stage.Mics {
			if !own[p] {
				t.Fatalf("mic %s points outside its show: %s", ch, p)
			}
			if ch != "HS1" && !own[ch] {
				t.Fatalf("mic channel %s not remapped", ch)
			}
		}
	}
}

func TestImportRenumbersOrders(t *testing.T) {
	doc := transfer.Document{ShowBundle: domain.ShowBundle{
		Show: domain.Show{ID: "s1", Name: "Revue"},
		Items: []domain.ShowItem{
			{ID: "a", ShowID: "s1", Kind: domain.KindSketch, Title: "A", Order: 4},
			{ID: "b", ShowID: "s1", Kind: domain.KindSketch, Title: "B", Order: 4},
			{ID: "c", ShowID: "s1", Kind: domain.KindBreak, Title: "C", Order: 9},
		},
	}}
	st, showID := transfer.Import(domain.State{}, doc, counter())
	items := st.ItemsOf(showID)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	got := ""
	for i, it := range items {
		if it.Order != i+1 {
			t.Fatalf("item %s has order %d at position %d", it.Title, it.Order, i+1)
		}
		got += it.Title
	}
	if got != "ABC" {
		t.Fatalf("expected relative order ABC, got %s", got)
	}
}

func TestExportUnknownShow(t *testing.T) {
	if _, err := transfer.Export(seeded(), "nope", time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestArchiveAndFetch(t *testing.T) {
	ctx := context.Background()
	store, err := blob.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	doc, _ := transfer.Export(seeded(), "s1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	info, err := transfer.Archive(ctx, store, doc)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if info.Key != "shows/s1/20240301T120000Z.json" {
		t.Fatalf("unexpected key %s", info.Key)
	}
	got, err := transfer.Fetch(ctx, store, info.Key)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Show.Name != "Revue" || len(got.Items) != 1 {
		t.Fatalf("unexpected document %+v", got)
	}
}
