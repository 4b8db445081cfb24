package engine

import (
	"backstage/internal/domain"
	"backstage/internal/remap"
)

// ShowPatch lists the show fields UpdateShow may change.
type ShowPatch struct {
	Name           *string
	Date           *string
	StartTime      *string
	BreakAfterItem *int
	BreakMinutes   *int
	Headsets       *int
	Handhelds      *int
}

func (e Engine) CreateShow(s domain.State, show domain.Show) (domain.State, domain.Show, error) {
	if show.Name == "" {
		return s, domain.Show{}, invalidf("show name is required")
	}
	next := begin(s)
	show.ID = e.newID()
	clampShow(&show)
	next.Shows = append(next.Shows, show)
	return next, show, nil
}

func (e Engine) UpdateShow(s domain.State, id string, patch ShowPatch) (domain.State, domain.Show, error) {
	if err := requireShow(s, id); err != nil {
		return s, domain.Show{}, err
	}
	next := begin(s)
	var out domain.Show
	for i := range next.Shows {
		sh := &next.Shows[i]
		if sh.ID != id {
			continue
		}
		if patch.Name != nil {
			sh.Name = *patch.Name
		}
		if patch.Date != nil {
			sh.Date = *patch.Date
		}
		if patch.StartTime != nil {
			sh.StartTime = *patch.StartTime
		}
		if patch.BreakAfterItem != nil {
			sh.BreakAfterItem = *patch.BreakAfterItem
		}
		if patch.BreakMinutes != nil {
			sh.BreakMinutes = *patch.BreakMinutes
		}
		if patch.Headsets != nil {
			sh.Headsets = *patch.Headsets
		}
		if patch.Handhelds != nil {
			sh.Handhelds = *patch.Handhelds
		}
		clampShow(sh)
		out = *sh
	}
	return next, out, nil
}

func clampShow(sh *domain.Show) {
	sh.BreakAfterItem = max(sh.BreakAfterItem, 0)
	sh.BreakMinutes = max(sh.BreakMinutes, 0)
	sh.Headsets = max(sh.Headsets, 0)
	sh.Handhelds = max(sh.Handhelds, 0)
}

// DeleteShow removes the show and sweeps every collection for entities
// scoped to it.
func (e Engine) DeleteShow(s domain.State, id string) (domain.State, error) {
	if err := requireShow(s, id); err != nil {
		return s, err
	}
	next := begin(s)
	next.Shows = keep(next.Shows, func(sh domain.Show) bool { return sh.ID != id })
	next.Items = keep(next.Items, func(it domain.ShowItem) bool { return it.ShowID != id })
	next.People = keep(next.People, func(p domain.Person) bool { return p.ShowID != id })
	next.Mics = keep(next.Mics, func(m domain.Mic) bool { return m.ShowID != id })
	next.Rehearsals = keep(next.Rehearsals, func(r domain.Rehearsal) bool { return r.ShowID != id })
	next.PRItems = keep(next.PRItems, func(p domain.PRItem) bool { return p.ShowID != id })
	return next, nil
}

// DuplicateShow copies a show with all dependents under fresh ids.
func (e Engine) DuplicateShow(s domain.State, id string) (domain.State, domain.Show, error) {
	bundle, ok := s.Bundle(id)
	if !ok {
		return s, domain.Show{}, NotFoundError{Kind: "show", ID: id}
	}
	copied := remap.Bundle(bundle, e.newID)
	copied.Show.Name = bundle.Show.Name + " (copy)"
	next := begin(s)
	next.Append(copied)
	return next, copied.Show, nil
}

func keep[T any](in []T, pred func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}
