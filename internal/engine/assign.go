package engine

import (
	"strconv"

	"backstage/internal/domain"
)

// MicStatus classifies an item's mic coverage.
type MicStatus string

const (
	MicGreen MicStatus = "green"
	MicRed   MicStatus = "red"
)

// stageOf returns the mutable stage of an item in next. Breaks have none.
func stageOf(next *domain.State, itemID string) (*domain.Stage, error) {
	idx := itemIndex(*next, itemID)
	if idx < 0 {
		return nil, NotFoundError{Kind: "item", ID: itemID}
	}
	return next.Items[idx].Stage, nil
}

// resolveRole maps a role key to a slot index: a role id first, then a
// position for roles that carry no id. -1 when nothing matches.
func resolveRole(roles []domain.Role, key string) int {
	if key == "" {
		return -1
	}
	for i, r := range roles {
		if r.ID == key {
			return i
		}
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || n >= len(roles) || roles[n].ID != "" {
		return -1
	}
	return n
}

// AssignRole puts personID in the role addressed by roleKey, first clearing
// any other role the person holds in the same item. An empty roleKey clears
// the person's current role. Unresolved keys change nothing.
func (e Engine) AssignRole(s domain.State, itemID, personID, roleKey string) (domain.State, error) {
	next := begin(s)
	st, err := stageOf(&next, itemID)
	if err != nil {
		return s, err
	}
	if st == nil {
		return s, nil
	}
	if roleKey == "" {
		if personID == "" {
			return s, nil
		}
		for i := range st.Roles {
			if st.Roles[i].PersonID == personID {
				st.Roles[i].PersonID = ""
			}
		}
		return next, nil
	}
	slot := resolveRole(st.Roles, roleKey)
	if slot < 0 {
		return s, nil
	}
	if personID != "" {
		for i := range st.Roles {
			if i != slot && st.Roles[i].PersonID == personID {
				st.Roles[i].PersonID = ""
			}
		}
	}
	st.Roles[slot].PersonID = personID
	return next, nil
}

// AssignMic puts personID on channelID, first clearing every other channel
// of the item that holds the same person. An empty personID clears only the
// given channel.
func (e Engine) AssignMic(s domain.State, itemID, channelID, personID string) (domain.State, error) {
	next := begin(s)
	st, err := stageOf(&next, itemID)
	if err != nil {
		return s, err
	}
	if st == nil || channelID == "" {
		return s, nil
	}
	if personID == "" {
		delete(st.Mics, channelID)
		return next, nil
	}
	for ch, holder := range st.Mics {
		if holder == personID {
			delete(st.Mics, ch)
		}
	}
	st.Mics[channelID] = personID
	return next, nil
}

// AddRole appends a role to a performance item.
func (e Engine) AddRole(s domain.State, itemID, name string, needsMic bool) (domain.State, domain.Role, error) {
	next := begin(s)
	st, err := stageOf(&next, itemID)
	if err != nil {
		return s, domain.Role{}, err
	}
	if st == nil {
		return s, domain.Role{}, invalidf("item %s has no roles", itemID)
	}
	role := domain.Role{ID: e.newID(), Name: name, NeedsMic: needsMic}
	st.Roles = append(st.Roles, role)
	return next, role, nil
}

// RenameRole changes a role's label and mic flag.
func (e Engine) RenameRole(s domain.State, itemID, roleKey, name string, needsMic bool) (domain.State, error) {
	next := begin(s)
	st, err := stageOf(&next, itemID)
	if err != nil {
		return s, err
	}
	if st == nil {
		return s, nil
	}
	slot := resolveRole(st.Roles, roleKey)
	if slot < 0 {
		return s, nil
	}
	st.Roles[slot].Name = name
	st.Roles[slot].NeedsMic = needsMic
	return next, nil
}

// RemoveRole drops a role slot. The mic channel of its holder stays.
func (e Engine) RemoveRole(s domain.State, itemID, roleKey string) (domain.State, error) {
	next := begin(s)
	st, err := stageOf(&next, itemID)
	if err != nil {
		return s, err
	}
	if st == nil {
		return s, nil
	}
	slot := resolveRole(st.Roles, roleKey)
	if slot < 0 {
		return s, nil
	}
	st.Roles = append(st.Roles[:slot], st.Roles[slot+1:]...)
	return next, nil
}

// RoleOptions lists who may be picked for the role at roleKey: everyone
// except people holding a different role in the item. The current holder
// always stays listed, even when they are no longer on the cast list.
func RoleOptions(item domain.ShowItem, roleKey string, people []domain.Person) []domain.Person {
	if item.Stage == nil {
		return nil
	}
	roles := item.Stage.Roles
	slot := resolveRole(roles, roleKey)
	holder := ""
	if slot >= 0 {
		holder = roles[slot].PersonID
	}
	taken := map[string]bool{}
	for i, r := range roles {
		if i != slot && r.PersonID != "" && r.PersonID != holder {
			taken[r.PersonID] = true
		}
	}
	var out []domain.Person
	seenHolder := false
	for _, p := range people {
		if taken[p.ID] {
			continue
		}
		if p.ID == holder {
			seenHolder = true
		}
		out = append(out, p)
	}
	if holder != "" && !seenHolder {
		out = append(out, domain.Person{ID: holder, ShowID: item.ShowID})
	}
	return out
}

// RequiredMicPeople returns the distinct people holding a mic role, in role
// order.
func RequiredMicPeople(item domain.ShowItem) []string {
	if item.Stage == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range item.Stage.Roles {
		if !r.NeedsMic || r.PersonID == "" || seen[r.PersonID] {
			continue
		}
		seen[r.PersonID] = true
		out = append(out, r.PersonID)
	}
	return out
}

// MicOptions lists who may be put on channelID: the required set minus
// people already on another channel, plus the channel's current holder.
func MicOptions(item domain.ShowItem, channelID string) []string {
	if item.Stage == nil {
		return nil
	}
	holder := item.Stage.Mics[channelID]
	elsewhere := map[string]bool{}
	for ch, p := range item.Stage.Mics {
		if ch != channelID && p != "" {
			elsewhere[p] = true
		}
	}
	var out []string
	included := false
	for _, p := range RequiredMicPeople(item) {
		if elsewhere[p] {
			continue
		}
		if p == holder {
			included = true
		}
		out = append(out, p)
	}
	if holder != "" && !included {
		out = append(out, holder)
	}
	return out
}

// MicComplete reports whether every required mic person has a channel.
func MicComplete(item domain.ShowItem) bool {
	if item.Stage == nil {
		return true
	}
	onChannel := map[string]bool{}
	for _, p := range item.Stage.Mics {
		onChannel[p] = true
	}
	for _, p := range RequiredMicPeople(item) {
		if !onChannel[p] {
			return false
		}
	}
	return true
}

func MicStatusOf(item domain.ShowItem) MicStatus {
	if MicComplete(item) {
		return MicGreen
	}
	return MicRed
}
