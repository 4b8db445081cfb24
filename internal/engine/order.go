package engine

import (
	"sort"

	"backstage/internal/domain"
)

// ItemDefaults seeds a new item.
type ItemDefaults struct {
	Title       string
	DurationMin int
	Roles       []domain.Role
}

// ItemPatch lists the fields UpdateItem may change. Nil fields are left alone.
type ItemPatch struct {
	Kind        *domain.ItemKind
	Title       *string
	DurationMin *int
	Order       *int
	Script      *string
	Notes       *string
	Props       *[]string
	Costumes    *[]string
	Cues        *[]string
	Attachments *[]string
}

func defaultTitle(kind domain.ItemKind) string {
	switch kind {
	case domain.KindBreak:
		return "Break"
	case domain.KindFiller:
		return "Waerse"
	default:
		return "New sketch"
	}
}

// AddItem appends an item at the end of the show's running order.
func (e Engine) AddItem(s domain.State, showID string, kind domain.ItemKind, defaults ItemDefaults) (domain.State, domain.ShowItem, error) {
	if err := requireShow(s, showID); err != nil {
		return s, domain.ShowItem{}, err
	}
	if !kind.Valid() {
		return s, domain.ShowItem{}, invalidf("item kind %q", kind)
	}
	next := begin(s)
	it := domain.ShowItem{
		ID:          e.newID(),
		ShowID:      showID,
		Kind:        kind,
		Title:       defaults.Title,
		Order:       len(next.ItemsOf(showID)) + 1,
		DurationMin: defaults.DurationMin,
	}
	if it.Title == "" {
		it.Title = defaultTitle(kind)
	}
	if kind.Performs() {
		it.Stage = &domain.Stage{Roles: append([]domain.Role{}, defaults.Roles...)}
		for i := range it.Stage.Roles {
			if it.Stage.Roles[i].ID == "" {
				it.Stage.Roles[i].ID = e.newID()
			}
		}
	}
	it.Normalize()
	next.Items = append(next.Items, it)
	renumber(&next, showID)
	created, _ := next.FindItem(it.ID)
	return next, created.Clone(), nil
}

// UpdateItem applies patch. A patched order moves the item to that position,
// clamped into the show's range; the show is renumbered either way.
func (e Engine) UpdateItem(s domain.State, id string, patch ItemPatch) (domain.State, domain.ShowItem, error) {
	idx := itemIndex(s, id)
	if idx < 0 {
		return s, domain.ShowItem{}, NotFoundError{Kind: "item", ID: id}
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return s, domain.ShowItem{}, invalidf("item kind %q", *patch.Kind)
	}
	next := begin(s)
	it := &next.Items[idx]
	if patch.Kind != nil {
		it.Kind = *patch.Kind
		it.Normalize()
	}
	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.DurationMin != nil {
		it.DurationMin = max(*patch.DurationMin, 0)
	}
	if it.Stage != nil {
		applyStagePatch(it.Stage, patch)
	}
	showID := it.ShowID
	if patch.Order != nil {
		reorder(&next, showID, id, *patch.Order)
	}
	renumber(&next, showID)
	updated, _ := next.FindItem(id)
	return next, updated.Clone(), nil
}

func applyStagePatch(st *domain.Stage, patch ItemPatch) {
	if patch.Script != nil {
		st.Script = *patch.Script
	}
	if patch.Notes != nil {
		st.Notes = *patch.Notes
	}
	if patch.Props != nil {
		st.Props = append([]string{}, (*patch.Props)...)
	}
	if patch.Costumes != nil {
		st.Costumes = append([]string{}, (*patch.Costumes)...)
	}
	if patch.Cues != nil {
		st.Cues = append([]string{}, (*patch.Cues)...)
	}
	if patch.Attachments != nil {
		st.Attachments = append([]string{}, (*patch.Attachments)...)
	}
}

// RemoveItem deletes an item and closes the gap it leaves.
func (e Engine) RemoveItem(s domain.State, id string) (domain.State, error) {
	idx := itemIndex(s, id)
	if idx < 0 {
		return s, NotFoundError{Kind: "item", ID: id}
	}
	next := begin(s)
	showID := next.Items[idx].ShowID
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	renumber(&next, showID)
	return next, nil
}

// MoveItem puts dragID directly before overID. Unknown ids, identical ids
// and items of different shows leave the state as it is.
func (e Engine) MoveItem(s domain.State, dragID, overID string) domain.State {
	if dragID == overID {
		return s
	}
	drag, ok := s.FindItem(dragID)
	if !ok {
		return s
	}
	over, ok := s.FindItem(overID)
	if !ok || over.ShowID != drag.ShowID {
		return s
	}
	next := begin(s)
	ids := orderedIDs(next, drag.ShowID)
	ids = without(ids, dragID)
	pos := 1
	for i, id := range ids {
		if id == overID {
			pos = i + 1
			break
		}
	}
	reorder(&next, drag.ShowID, dragID, pos)
	return next
}

// reorder is the single reorder primitive: it removes id from the show's
// sequence, reinserts it at the 1-based position clamped into [1, N] and
// renumbers.
func reorder(s *domain.State, showID, id string, pos int) {
	ids := without(orderedIDs(*s, showID), id)
	n := len(ids) + 1
	if pos < 1 {
		pos = 1
	}
	if pos > n {
		pos = n
	}
	seq := make([]string, 0, n)
	seq = append(seq, ids[:pos-1]...)
	seq = append(seq, id)
	seq = append(seq, ids[pos-1:]...)
	assignOrder(s, seq)
}

// renumber restores orders 1..N for one show, keeping the current relative
// order (ties broken by position in the document).
func renumber(s *domain.State, showID string) {
	assignOrder(s, orderedIDs(*s, showID))
}

// RenumberShow restores orders 1..N for one show of a document that came
// from outside the engine.
func RenumberShow(s *domain.State, showID string) {
	renumber(s, showID)
}

// Renumber restores orders 1..N in every show that has items.
func Renumber(s *domain.State) {
	seen := map[string]bool{}
	for _, it := range s.Items {
		if seen[it.ShowID] {
			continue
		}
		seen[it.ShowID] = true
		renumber(s, it.ShowID)
	}
}

func orderedIDs(s domain.State, showID string) []string {
	type entry struct {
		id    string
		order int
		pos   int
	}
	var entries []entry
	for i, it := range s.Items {
		if it.ShowID == showID {
			entries = append(entries, entry{id: it.ID, order: it.Order, pos: i})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].pos < entries[j].pos
	})
	ids := make([]string, len(entries))
	for i, en := range entries {
		ids[i] = en.id
	}
	return ids
}

func assignOrder(s *domain.State, seq []string) {
	pos := make(map[string]int, len(seq))
	for i, id := range seq {
		pos[id] = i + 1
	}
	for i := range s.Items {
		if o, ok := pos[s.Items[i].ID]; ok {
			s.Items[i].Order = o
		}
	}
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
