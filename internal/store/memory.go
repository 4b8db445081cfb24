package store

import (
	"context"
	"fmt"
	"sync"

	"backstage/internal/domain"
)

// Memory is a process-local store. It keeps encoded copies so callers never
// share memory with what was saved.
type Memory struct {
	mu       sync.Mutex
	doc      []byte
	versions [][]byte
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(ctx context.Context) (*domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, nil
	}
	return decodeState(m.doc)
}

func (m *Memory) Save(ctx context.Context, s domain.State) error {
	data, err := encodeState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.doc = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListVersions(ctx context.Context) ([]domain.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Version, 0, len(m.versions))
	for _, raw := range m.versions {
		v, err := decodeVersion(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	sortVersions(out)
	return out, nil
}

func (m *Memory) AppendVersion(ctx context.Context, v domain.Version) error {
	data, err := encodeVersion(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.versions = append(m.versions, data)
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetVersion(ctx context.Context, id string) (domain.Version, error) {
	vs, err := m.ListVersions(ctx)
	if err != nil {
		return domain.Version{}, err
	}
	for _, v := range vs {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Version{}, fmt.Errorf("version %s: %w", id, ErrNotFound)
}

func (m *Memory) DeleteVersion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, raw := range m.versions {
		v, err := decodeVersion(raw)
		if err != nil {
			return err
		}
		if v.ID == id {
			m.versions = append(m.versions[:i], m.versions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("version %s: %w", id, ErrNotFound)
}

func (m *Memory) Close() error { return nil }
