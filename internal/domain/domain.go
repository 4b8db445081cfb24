package domain

import "sort"

type ItemKind string

const (
	KindSketch ItemKind = "sketch"
	KindBreak  ItemKind = "break"
	// KindFiller is the fixed filler act that returns every show.
	KindFiller ItemKind = "waerse"
)

// Valid reports whether k is one of the known item kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindSketch, KindBreak, KindFiller:
		return true
	}
	return false
}

// Performs reports whether items of this kind put people on stage.
func (k ItemKind) Performs() bool {
	return k == KindSketch || k == KindFiller
}

type PersonCategory string

const (
	CategoryPerformer PersonCategory = "speler"
	CategoryDancer    PersonCategory = "danser"
)

type MicKind string

const (
	MicHeadset  MicKind = "headset"
	MicHandheld MicKind = "handheld"
)

// CrewTokens are absentee markers for crew positions that are not people.
var CrewTokens = []string{"regie", "techniek", "geluid", "licht", "decor", "kostuum", "grime"}

// IsCrewToken reports whether s names a crew position.
func IsCrewToken(s string) bool {
	for _, t := range CrewTokens {
		if t == s {
			return true
		}
	}
	return false
}

type Show struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Date           string `json:"date,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	BreakAfterItem int    `json:"break_after_item,omitempty"`
	BreakMinutes   int    `json:"break_minutes,omitempty"`
	Headsets       int    `json:"headsets,omitempty"`
	Handhelds      int    `json:"handhelds,omitempty"`
}

// Stage holds the fields that only performance items carry.
type Stage struct {
	Roles       []Role            `json:"roles"`
	Mics        map[string]string `json:"mics"`
	Script      string            `json:"script,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Props       []string          `json:"props,omitempty"`
	Costumes    []string          `json:"costumes,omitempty"`
	Cues        []string          `json:"cues,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
}

type ShowItem struct {
	ID          string   `json:"id"`
	ShowID      string   `json:"show_id"`
	Kind        ItemKind `json:"kind" enum:"sketch,break,waerse"`
	Title       string   `json:"title"`
	Order       int      `json:"order"`
	DurationMin int      `json:"duration_min"`
	Stage       *Stage   `json:"stage,omitempty"`
}

type Role struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	PersonID string `json:"person_id,omitempty"`
	NeedsMic bool   `json:"needs_mic"`
}

type Person struct {
	ID        string         `json:"id"`
	ShowID    string         `json:"show_id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name,omitempty"`
	Category  PersonCategory `json:"category" enum:"speler,danser"`
	Tags      string         `json:"tags,omitempty"`
}

// DisplayName is the name shown on run-sheets and warnings.
func (p Person) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Mic struct {
	ID     string  `json:"id"`
	ShowID string  `json:"show_id"`
	Name   string  `json:"name"`
	Kind   MicKind `json:"kind,omitempty" enum:"headset,handheld"`
}

type Rehearsal struct {
	ID        string   `json:"id"`
	ShowID    string   `json:"show_id"`
	Date      string   `json:"date"`
	Location  string   `json:"location,omitempty"`
	Type      string   `json:"type,omitempty"`
	Comments  string   `json:"comments,omitempty"`
	Absentees []string `json:"absentees"`
}

type PRItem struct {
	ID      string `json:"id"`
	ShowID  string `json:"show_id"`
	Title   string `json:"title"`
	Channel string `json:"channel,omitempty"`
	Status  string `json:"status,omitempty"`
	Due     string `json:"due,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// State is the whole persisted document.
type State struct {
	Shows      []Show      `json:"shows"`
	Items      []ShowItem  `json:"items"`
	People     []Person    `json:"people"`
	Mics       []Mic       `json:"mics"`
	Rehearsals []Rehearsal `json:"rehearsals"`
	PRItems    []PRItem    `json:"pr_items"`
	SavedAt    string      `json:"saved_at,omitempty" format:"date-time"`
}

// Version is a named snapshot kept outside the undo stack.
type Version struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at" format:"date-time"`
	State     State  `json:"state"`
}

// ShowBundle is one show together with everything scoped to it.
type ShowBundle struct {
	Show       Show        `json:"show"`
	Items      []ShowItem  `json:"items"`
	People     []Person    `json:"people"`
	Mics       []Mic       `json:"mics"`
	Rehearsals []Rehearsal `json:"rehearsals"`
	PRItems    []PRItem    `json:"pr_items"`
}

// Normalize makes an item consistent with its kind: breaks drop their stage,
// performance items always get one with non-nil collections.
func (it *ShowItem) Normalize() {
	if !it.Kind.Valid() {
		it.Kind = KindSketch
	}
	if it.DurationMin < 0 {
		it.DurationMin = 0
	}
	if !it.Kind.Performs() {
		it.Stage = nil
		return
	}
	if it.Stage == nil {
		it.Stage = &Stage{}
	}
	if it.Stage.Roles == nil {
		it.Stage.Roles = []Role{}
	}
	if it.Stage.Mics == nil {
		it.Stage.Mics = map[string]string{}
	}
}

func (s Stage) clone() *Stage {
	out := s
	out.Roles = append([]Role{}, s.Roles...)
	out.Mics = make(map[string]string, len(s.Mics))
	for k, v := range s.Mics {
		out.Mics[k] = v
	}
	out.Props = cloneStrings(s.Props)
	out.Costumes = cloneStrings(s.Costumes)
	out.Cues = cloneStrings(s.Cues)
	out.Attachments = cloneStrings(s.Attachments)
	return &out
}

// Clone returns a deep copy of the item.
func (it ShowItem) Clone() ShowItem {
	if it.Stage != nil {
		it.Stage = it.Stage.clone()
	}
	return it
}

// Clone returns a deep copy of the whole document.
func (s State) Clone() State {
	out := State{
		Shows:      append([]Show{}, s.Shows...),
		Items:      make([]ShowItem, len(s.Items)),
		People:     append([]Person{}, s.People...),
		Mics:       append([]Mic{}, s.Mics...),
		Rehearsals: make([]Rehearsal, len(s.Rehearsals)),
		PRItems:    append([]PRItem{}, s.PRItems...),
		SavedAt:    s.SavedAt,
	}
	for i, it := range s.Items {
		out.Items[i] = it.Clone()
	}
	for i, r := range s.Rehearsals {
		r.Absentees = append([]string{}, r.Absentees...)
		out.Rehearsals[i] = r
	}
	return out
}

// Normalize defaults missing collections to empty and repairs items so the
// engines never see nil slices or maps.
func (s *State) Normalize() {
	if s.Shows == nil {
		s.Shows = []Show{}
	}
	if s.Items == nil {
		s.Items = []ShowItem{}
	}
	if s.People == nil {
		s.People = []Person{}
	}
	if s.Mics == nil {
		s.Mics = []Mic{}
	}
	if s.Rehearsals == nil {
		s.Rehearsals = []Rehearsal{}
	}
	if s.PRItems == nil {
		s.PRItems = []PRItem{}
	}
	for i := range s.Items {
		s.Items[i].Normalize()
	}
	for i := range s.Rehearsals {
		if s.Rehearsals[i].Absentees == nil {
			s.Rehearsals[i].Absentees = []string{}
		}
	}
}

func (s State) FindShow(id string) (Show, bool) {
	for _, sh := range s.Shows {
		if sh.ID == id {
			return sh, true
		}
	}
	return Show{}, false
}

func (s State) FindItem(id string) (ShowItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ShowItem{}, false
}

func (s State) FindPerson(id string) (Person, bool) {
	for _, p := range s.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// ItemsOf returns copies of a show's items sorted by order.
func (s State) ItemsOf(showID string) []ShowItem {
	var out []ShowItem
	for _, it := range s.Items {
		if it.ShowID == showID {
			out = append(out, it.Clone())
		}
	}
	SortByOrder(out)
	return out
}

func (s State) PeopleOf(showID string) []Person {
	var out []Person
	for _, p := range s.People {
		if p.ShowID == showID {
			out = append(out, p)
		}
	}
	return out
}

func (s State) MicsOf(showID string) []Mic {
	var out []Mic
	for _, m := range s.Mics {
		if m.ShowID == showID {
			out = append(out, m)
		}
	}
	return out
}

func (s State) RehearsalsOf(showID string) []Rehearsal {
	var out []Rehearsal
	for _, r := range s.Rehearsals {
		if r.ShowID == showID {
			r.Absentees = append([]string{}, r.Absentees...)
			out = append(out, r)
		}
	}
	return out
}

func (s State) PRItemsOf(showID string) []PRItem {
	var out []PRItem
	for _, p := range s.PRItems {
		if p.ShowID == showID {
			out = append(out, p)
		}
	}
	return out
}

// Bundle extracts a show and its dependents. ok is false when the show does
// not exist.
func (s State) Bundle(showID string) (ShowBundle, bool) {
	show, ok := s.FindShow(showID)
	if !ok {
		return ShowBundle{}, false
	}
	return ShowBundle{
		Show:       show,
		Items:      nonNil(s.ItemsOf(showID)),
		People:     nonNil(s.PeopleOf(showID)),
		Mics:       nonNil(s.MicsOf(showID)),
		Rehearsals: nonNil(s.RehearsalsOf(showID)),
		PRItems:    nonNil(s.PRItemsOf(showID)),
	}, true
}

// Append adds every entity of b to the document.
func (s *State) Append(b ShowBundle) {
	s.Shows = append(s.Shows, b.Show)
	s.Items = append(s.Items, b.Items...)
	s.People = append(s.People, b.People...)
	s.Mics = append(s.Mics, b.Mics...)
	s.Rehearsals = append(s.Rehearsals, b.Rehearsals...)
	s.PRItems = append(s.PRItems, b.PRItems...)
}

// SortByOrder sorts items by their order, keeping ties stable.
func SortByOrder(items []ShowItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
