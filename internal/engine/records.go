package engine

import (
	"strings"

	"backstage/internal/domain"
)

// PersonPatch lists the person fields UpdatePerson may change.
type PersonPatch struct {
	FirstName *string
	LastName  *string
	Category  *domain.PersonCategory
	Tags      *string
}

// PRPatch lists the PR item fields UpdatePRItem may change.
type PRPatch struct {
	Title   *string
	Channel *string
	Status  *string
	Due     *string
	Notes   *string
}

func (e Engine) AddPerson(s domain.State, showID string, p domain.Person) (domain.State, domain.Person, error) {
	if err := requireShow(s, showID); err != nil {
		return s, domain.Person{}, err
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return s, domain.Person{}, invalidf("first name is required")
	}
	if p.Category == "" {
		p.Category = domain.CategoryPerformer
	}
	next := begin(s)
	p.ID = e.newID()
	p.ShowID = showID
	next.People = append(next.People, p)
	return next, p, nil
}

func (e Engine) UpdatePerson(s domain.State, id string, patch PersonPatch) (domain.State, domain.Person, error) {
	next := begin(s)
	for i := range next.People {
		p := &next.People[i]
		if p.ID != id {
			continue
		}
		if patch.FirstName != nil {
			p.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			p.LastName = *patch.LastName
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Tags != nil {
			p.Tags = *patch.Tags
		}
		return next, *p, nil
	}
	return s, domain.Person{}, NotFoundError{Kind: "person", ID: id}
}

// RemovePerson deletes a person and clears every role, channel and absentee
// entry of their show that points at them.
func (e Engine) RemovePerson(s domain.State, id string) (domain.State, error) {
	person, ok := s.FindPerson(id)
	if !ok {
		return s, NotFoundError{Kind: "person", ID: id}
	}
	next := begin(s)
	next.People = keep(next.People, func(p domain.Person) bool { return p.ID != id })
	for i := range next.Items {
		it := &next.Items[i]
		if it.ShowID != person.ShowID || it.Stage == nil {
			continue
		}
		for j := range it.Stage.Roles {
			if it.Stage.Roles[j].PersonID == id {
				it.Stage.Roles[j].PersonID = ""
			}
		}
		for ch, holder := range it.Stage.Mics {
			if holder == id {
				delete(it.Stage.Mics, ch)
			}
		}
	}
	for i := range next.Rehearsals {
		r := &next.Rehearsals[i]
		if r.ShowID == person.ShowID {
			r.Absentees = keep(r.Absentees, func(a string) bool { return a != id })
		}
	}
	return next, nil
}

func (e Engine) AddMic(s domain.State, showID string, m domain.Mic) (domain.State, domain.Mic, error) {
	if err := requireShow(s, showID); err != nil {
		return s, domain.Mic{}, err
	}
	if m.Kind == "" {
		m.Kind = domain.MicHeadset
	}
	next := begin(s)
	m.ID = e.newID()
	m.ShowID = showID
	if m.Name == "" {
		m.Name = "Mic " + m.ID[:min(len(m.ID), 4)]
	}
	next.Mics = append(next.Mics, m)
	return next, m, nil
}

// RemoveMic deletes a persisted mic and frees its channel in every item.
func (e Engine) RemoveMic(s domain.State, id string) (domain.State, error) {
	var showID string
	found := false
	for _, m := range s.Mics {
		if m.ID == id {
			showID, found = m.ShowID, true
		}
	}
	if !found {
		return s, NotFoundError{Kind: "mic", ID: id}
	}
	next := begin(s)
	next.Mics = keep(next.Mics, func(m domain.Mic) bool { return m.ID != id })
	for i := range next.Items {
		if it := next.Items[i]; it.ShowID == showID && it.Stage != nil {
			delete(it.Stage.Mics, id)
		}
	}
	return next, nil
}

func (e Engine) AddRehearsal(s domain.State, showID string, r domain.Rehearsal) (domain.State, domain.Rehearsal, error) {
	if err := requireShow(s, showID); err != nil {
		return s, domain.Rehearsal{}, err
	}
	next := begin(s)
	r.ID = e.newID()
	r.ShowID = showID
	if r.Date == "" {
		r.Date = e.now().Format("2006-01-02")
	}
	r.Absentees = dedupe(r.Absentees)
	next.Rehearsals = append(next.Rehearsals, r)
	return next, r, nil
}

// SetAbsentees replaces the absentee list of a rehearsal. Entries are kept
// in the given order without duplicates.
func (e Engine) SetAbsentees(s domain.State, id string, absentees []string) (domain.State, domain.Rehearsal, error) {
	next := begin(s)
	for i := range next.Rehearsals {
		if next.Rehearsals[i].ID == id {
			next.Rehearsals[i].Absentees = dedupe(absentees)
			return next, next.Rehearsals[i], nil
		}
	}
	return s, domain.Rehearsal{}, NotFoundError{Kind: "rehearsal", ID: id}
}

func (e Engine) RemoveRehearsal(s domain.State, id string) (domain.State, error) {
	next := begin(s)
	n := len(next.Rehearsals)
	next.Rehearsals = keep(next.Rehearsals, func(r domain.Rehearsal) bool { return r.ID != id })
	if len(next.Rehearsals) == n {
		return s, NotFoundError{Kind: "rehearsal", ID: id}
	}
	return next, nil
}

func (e Engine) AddPRItem(s domain.State, showID string, p domain.PRItem) (domain.State, domain.PRItem, error) {
	if err := requireShow(s, showID); err != nil {
		return s, domain.PRItem{}, err
	}
	next := begin(s)
	p.ID = e.newID()
	p.ShowID = showID
	if p.Status == "" {
		p.Status = "todo"
	}
	next.PRItems = append(next.PRItems, p)
	return next, p, nil
}

func (e Engine) UpdatePRItem(s domain.State, id string, patch PRPatch) (domain.State, domain.PRItem, error) {
	next := begin(s)
	for i := range next.PRItems {
		p := &next.PRItems[i]
		if p.ID != id {
			continue
		}
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Channel != nil {
			p.Channel = *patch.Channel
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		if patch.Due != nil {
			p.Due = *patch.Due
		}
		if patch.Notes != nil {
			p.Notes = *patch.Notes
		}
		return next, *p, nil
	}
	return s, domain.PRItem{}, NotFoundError{Kind: "pr item", ID: id}
}

func (e Engine) RemovePRItem(s domain.State, id string) (domain.State, error) {
	next := begin(s)
	n := len(next.PRItems)
	next.PRItems = keep(next.PRItems, func(p domain.PRItem) bool { return p.ID != id })
	if len(next.PRItems) == n {
		return s, NotFoundError{Kind: "pr item", ID: id}
	}
	return next, nil
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
