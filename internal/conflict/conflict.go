// Package conflict scans a running order for quick changes between
// adjacent items.
package conflict

import (
	"fmt"
	"sort"

	"backstage/internal/domain"
)

type Kind string

const (
	// CastQuickChange: the same performer plays in two consecutive acts.
	CastQuickChange Kind = "cast_quick_change"
	// MicHandoff: a channel passes from one person to another between
	// consecutive items.
	MicHandoff Kind = "mic_handoff"
)

type Warning struct {
	Kind       Kind   `json:"kind"`
	FromItemID string `json:"from_item_id"`
	FromTitle  string `json:"from_title"`
	ToItemID   string `json:"to_item_id"`
	ToTitle    string `json:"to_title"`
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name"`
	// Channel and ToPersonID are set for mic handoffs only.
	Channel      string `json:"channel,omitempty"`
	ToPersonID   string `json:"to_person_id,omitempty"`
	ToPersonName string `json:"to_person_name,omitempty"`
	Message      string `json:"message"`
}

// Detect runs both adjacency scans over items sorted by order. people is
// only used for display names; unknown ids are shown as-is.
func Detect(items []domain.ShowItem, people []domain.Person) []Warning {
	sorted := append([]domain.ShowItem{}, items...)
	domain.SortByOrder(sorted)
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.DisplayName()
	}
	name := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return id
	}

	out := []Warning{}
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		out = append(out, castWarnings(a, b, name)...)
		out = append(out, micWarnings(a, b, name)...)
	}
	return out
}

func castWarnings(a, b domain.ShowItem, name func(string) string) []Warning {
	if !isSketch(a) || !isSketch(b) {
		return nil
	}
	inNext := map[string]bool{}
	for _, r := range b.Stage.Roles {
		if r.PersonID != "" {
			inNext[r.PersonID] = true
		}
	}
	var out []Warning
	seen := map[string]bool{}
	for _, r := range a.Stage.Roles {
		p := r.PersonID
		if p == "" || seen[p] || !inNext[p] {
			continue
		}
		seen[p] = true
		out = append(out, Warning{
			Kind:       CastQuickChange,
			FromItemID: a.ID,
			FromTitle:  a.Title,
			ToItemID:   b.ID,
			ToTitle:    b.Title,
			PersonID:   p,
			PersonName: name(p),
			Message:    fmt.Sprintf("%s plays in %q and directly after in %q", name(p), a.Title, b.Title),
		})
	}
	return out
}

func micWarnings(a, b domain.ShowItem, name func(string) string) []Warning {
	if a.Stage == nil || b.Stage == nil {
		return nil
	}
	channels := make([]string, 0, len(a.Stage.Mics))
	for ch := range a.Stage.Mics {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	var out []Warning
	for _, ch := range channels {
		from := a.Stage.Mics[ch]
		to := b.Stage.Mics[ch]
		if from == "" || to == "" || from == to {
			continue
		}
		out = append(out, Warning{
			Kind:         MicHandoff,
			FromItemID:   a.ID,
			FromTitle:    a.Title,
			ToItemID:     b.ID,
			ToTitle:      b.Title,
			PersonID:     from,
			PersonName:   name(from),
			Channel:      ch,
			ToPersonID:   to,
			ToPersonName: name(to),
			Message:      fmt.Sprintf("channel %s goes from %s to %s between %q and %q", ch, name(from), name(to), a.Title, b.Title),
		})
	}
	return out
}

// isSketch excludes breaks and the filler act from the cast scan.
func isSketch(it domain.ShowItem) bool {
	return it.Kind == domain.KindSketch && it.Stage != nil
}
