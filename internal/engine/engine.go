// Package engine holds the running-order and assignment logic. Every
// operation takes a domain.State and returns a new one; the input is never
// modified.
package engine

import (
	"errors"
	"fmt"
	"time"

	"backstage/internal/domain"
	"backstage/internal/remap"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

// NotFoundError names the entity that could not be resolved.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

type Engine struct {
	IDs remap.IDFunc
	Now func() time.Time
}

func New() Engine {
	return Engine{IDs: remap.NewID, Now: time.Now}
}

func (e Engine) newID() string {
	if e.IDs != nil {
		return e.IDs()
	}
	return remap.NewID()
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// begin returns a normalized deep copy to mutate.
func begin(s domain.State) domain.State {
	next := s.Clone()
	next.Normalize()
	return next
}

func itemIndex(s domain.State, id string) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func requireShow(s domain.State, id string) error {
	if _, ok := s.FindShow(id); !ok {
		return NotFoundError{Kind: "show", ID: id}
	}
	return nil
}
