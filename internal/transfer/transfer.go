// Package transfer moves a single show in and out of the document as a
// standalone JSON file.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"backstage/internal/blob"
	"backstage/internal/domain"
	"backstage/internal/engine"
	"backstage/internal/remap"
)

// Document is the export file: one show plus everything scoped to it.
type Document struct {
	ExportedAt string `json:"exported_at" format:"date-time"`
	domain.ShowBundle
}

// Export extracts showID from s.
func Export(s domain.State, showID string, now time.Time) (Document, error) {
	b, ok := s.Bundle(showID)
	if !ok {
		return Document{}, engine.NotFoundError{Kind: "show", ID: showID}
	}
	return Document{ExportedAt: now.UTC().Format(time.RFC3339), ShowBundle: b}, nil
}

// Import appends a copy of doc under fresh ids and returns the new show id.
// The copy's items are renumbered 1..N whatever orders the file carried.
// The input state is left untouched.
func Import(s domain.State, doc Document, gen remap.IDFunc) (domain.State, string) {
	copied := remap.Bundle(doc.ShowBundle, gen)
	next := s.Clone()
	next.Normalize()
	next.Append(copied)
	engine.RenumberShow(&next, copied.Show.ID)
	return next, copied.Show.ID
}

func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode export: %w", err)
	}
	if doc.Show.Name == "" && doc.Show.ID == "" {
		return Document{}, fmt.Errorf("decode export: no show in document")
	}
	return doc, nil
}

// Key names the blob an export is archived under.
func Key(doc Document) string {
	stamp := strings.NewReplacer(":", "", "-", "").Replace(doc.ExportedAt)
	return fmt.Sprintf("shows/%s/%s.json", doc.Show.ID, stamp)
}

// Archive writes doc to the blob store.
func Archive(ctx context.Context, store blob.Store, doc Document) (blob.Info, error) {
	var b strings.Builder
	if err := Encode(&b, doc); err != nil {
		return blob.Info{}, err
	}
	return store.Put(ctx, Key(doc), strings.NewReader(b.String()), "application/json")
}

// Fetch reads an archived export back.
func Fetch(ctx context.Context, store blob.Store, key string) (Document, error) {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return Document{}, err
	}
	defer rc.Close()
	return Decode(rc)
}
