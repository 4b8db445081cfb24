// Package app holds the Session: the single state container that applies
// engine operations, records undo history and persists the document.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"backstage/internal/domain"
	"backstage/internal/engine"
	"backstage/internal/history"
	"backstage/internal/metrics"
	"backstage/internal/store"
)

// ErrSave marks a failed persist. The mutation itself was applied.
var ErrSave = errors.New("save failed")

type Options struct {
	Store        store.Store
	Engine       engine.Engine
	HistoryLimit int
	Logger       *log.Logger
	Metrics      *metrics.Metrics
}

// Session serializes every read and write of the document. The in-memory
// state is the source of truth; a failed save leaves it in place and
// reports the error.
type Session struct {
	Engine engine.Engine

	mu      sync.Mutex
	state   domain.State
	history *history.Manager
	store   store.Store
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Open loads the stored document, starting empty when nothing was saved.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session requires a store")
	}
	if opts.Engine.IDs == nil || opts.Engine.Now == nil {
		opts.Engine = engine.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	loaded, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	var st domain.State
	if loaded != nil {
		st = *loaded
	}
	st.Normalize()
	return &Session{
		Engine:  opts.Engine,
		state:   st,
		history: history.New(opts.HistoryLimit),
		store:   opts.Store,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// State returns a copy of the current document.
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Mutate runs fn against the current state. When fn succeeds the previous
// state goes on the undo stack, the result becomes current and is saved.
func (s *Session) Mutate(ctx context.Context, op string, fn func(domain.State) (domain.State, error)) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state.Clone())
	if err != nil {
		return s.state.Clone(), err
	}
	s.history.Record(s.state)
	s.apply(next)
	s.metrics.Mutation(op)
	err = s.persist(ctx)
	return s.state.Clone(), err
}

// Replace swaps in a whole document as one undoable step. Item orders are
// renumbered per show.
func (s *Session) Replace(ctx context.Context, st domain.State) (domain.State, error) {
	return s.Mutate(ctx, "replace", func(domain.State) (domain.State, error) {
		next := st.Clone()
		engine.Renumber(&next)
		return next, nil
	})
}

// Undo steps back one snapshot. ok is false when there was nothing to undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	return s.step(ctx, "undo", s.history.Undo)
}

// Redo reapplies the last undone snapshot.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	return s.step(ctx, "redo", s.history.Redo)
}

func (s *Session) step(ctx context.Context, direction string, move func(domain.State) (domain.State, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := move(s.state)
	if !ok {
		return false, nil
	}
	s.apply(next)
	s.metrics.HistoryStep(direction)
	return true, s.persist(ctx)
}

// CanUndo and CanRedo report whether the stacks are non-empty.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

func (s *Session) apply(next domain.State) {
	next.Normalize()
	s.state = next
	past, _ := s.history.Len()
	s.metrics.UndoDepth(past)
}

// persist stamps SavedAt on the stored copy only, so the live state and the
// history snapshots compare equal across undo and redo.
func (s *Session) persist(ctx context.Context) error {
	stored := s.state.Clone()
	stored.SavedAt = s.Engine.Now().UTC().Format(time.RFC3339)
	err := s.store.Save(ctx, stored)
	s.metrics.Save(err)
	if err != nil {
		s.logger.Printf("save failed, keeping in-memory state: %v", err)
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return nil
}

// Close releases the store.
func (s *Session) Close() error {
	return s.store.Close()
}
