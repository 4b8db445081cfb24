package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backstage/internal/domain"
	"backstage/internal/engine"
)

// VersionInfo is a version without its snapshot.
type VersionInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// SaveVersion stores the current state under label. Versions live outside
// the undo stack and are never trimmed.
func (s *Session) SaveVersion(ctx context.Context, label string) (VersionInfo, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return VersionInfo{}, fmt.Errorf("version label is required")
	}
	s.mu.Lock()
	v := domain.Version{
		ID:        s.Engine.IDs(),
		Label:     label,
		CreatedAt: s.Engine.Now().UTC().Format(time.RFC3339Nano),
		State:     s.state.Clone(),
	}
	s.mu.Unlock()
	if err := s.store.AppendVersion(ctx, v); err != nil {
		return VersionInfo{}, fmt.Errorf("save version: %w", err)
	}
	return info(v), nil
}

func (s *Session) ListVersions(ctx context.Context) ([]VersionInfo, error) {
	vs, err := s.store.ListVersions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]VersionInfo, 0, len(vs))
	for _, v := range vs {
		out = append(out, info(v))
	}
	return out, nil
}

// RestoreVersion makes a saved version current. The pre-restore state goes
// on the undo stack like any other mutation.
func (s *Session) RestoreVersion(ctx context.Context, id string) (domain.State, error) {
	v, err := s.store.GetVersion(ctx, id)
	if err != nil {
		return domain.State{}, err
	}
	return s.Mutate(ctx, "restore_version", func(domain.State) (domain.State, error) {
		next := v.State.Clone()
		engine.Renumber(&next)
		return next, nil
	})
}

func (s *Session) DeleteVersion(ctx context.Context, id string) error {
	return s.store.DeleteVersion(ctx, id)
}

func info(v domain.Version) VersionInfo {
	return VersionInfo{ID: v.ID, Label: v.Label, CreatedAt: v.CreatedAt}
}
