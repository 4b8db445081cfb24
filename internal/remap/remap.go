// Package remap copies entities under fresh ids and rewrites the references
// between them. Show duplication and import both go through Bundle.
package remap

import (
	"github.com/google/uuid"

	"backstage/internal/domain"
)

// IDFunc generates a fresh id.
type IDFunc func() string

// NewID is the default generator.
func NewID() string { return uuid.NewString() }

// Table maps old ids to new ones.
type Table map[string]string

// Resolve returns the new id for old, or "" when old was not copied.
func (t Table) Resolve(old string) string {
	if old == "" {
		return ""
	}
	return t[old]
}

// Entities copies in, giving every element a fresh id through gen, and
// returns the copies with the old->new table.
func Entities[T any](in []T, id func(*T) *string, gen IDFunc) ([]T, Table) {
	table := make(Table, len(in))
	out := make([]T, len(in))
	for i := range in {
		out[i] = in[i]
		ref := id(&out[i])
		fresh := gen()
		if *ref != "" {
			table[*ref] = fresh
		}
		*ref = fresh
	}
	return out, table
}

// Bundle returns a deep copy of b under a new show id with fresh ids for
// every entity. Role and mic references to people or mics outside the bundle
// become empty assignments.
func Bundle(b domain.ShowBundle, gen IDFunc) domain.ShowBundle {
	if gen == nil {
		gen = NewID
	}
	showID := gen()
	out := domain.ShowBundle{Show: b.Show}
	out.Show.ID = showID

	var people, mics Table
	out.People, people = Entities(b.People, func(p *domain.Person) *string { return &p.ID }, gen)
	out.Mics, mics = Entities(b.Mics, func(m *domain.Mic) *string { return &m.ID }, gen)
	out.Items, _ = Entities(cloneItems(b.Items), func(it *domain.ShowItem) *string { return &it.ID }, gen)
	out.Rehearsals, _ = Entities(b.Rehearsals, func(r *domain.Rehearsal) *string { return &r.ID }, gen)
	out.PRItems, _ = Entities(b.PRItems, func(p *domain.PRItem) *string { return &p.ID }, gen)

	for i := range out.People {
		out.People[i].ShowID = showID
	}
	for i := range out.Mics {
		out.Mics[i].ShowID = showID
	}
	for i := range out.PRItems {
		out.PRItems[i].ShowID = showID
	}
	for i := range out.Items {
		it := &out.Items[i]
		it.ShowID = showID
		it.Normalize()
		if it.Stage == nil {
			continue
		}
		for r := range it.Stage.Roles {
			role := &it.Stage.Roles[r]
			role.PersonID = people.Resolve(role.PersonID)
			if role.ID != "" {
				role.ID = gen()
			}
		}
		remapped := make(map[string]string, len(it.Stage.Mics))
		for ch, person := range it.Stage.Mics {
			channel := ch
			if !domain.IsSlotChannel(ch) {
				channel = mics.Resolve(ch)
			}
			holder := people.Resolve(person)
			if channel == "" || holder == "" {
				continue
			}
			remapped[channel] = holder
		}
		it.Stage.Mics = remapped
	}
	for i := range out.Rehearsals {
		r := &out.Rehearsals[i]
		r.ShowID = showID
		absentees := make([]string, 0, len(r.Absentees))
		for _, a := range r.Absentees {
			switch {
			case people.Resolve(a) != "":
				absentees = append(absentees, people.Resolve(a))
			case domain.IsCrewToken(a):
				absentees = append(absentees, a)
			}
		}
		r.Absentees = absentees
	}
	return out
}

func cloneItems(in []domain.ShowItem) []domain.ShowItem {
	out := make([]domain.ShowItem, len(in))
	for i, it := range in {
		out[i] = it.Clone()
	}
	return out
}
