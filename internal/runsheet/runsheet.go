// Package runsheet projects a show's running order onto the wall clock.
package runsheet

import (
	"backstage/internal/domain"
	"backstage/internal/timeline"
)

type EntryKind string

const (
	EntryAct   EntryKind = "act"
	EntryBreak EntryKind = "break"
)

// Entry is one timed line of the run-sheet. Inserted marks the pause the
// show configures after an item; it has no item of its own.
type Entry struct {
	Kind        EntryKind       `json:"kind"`
	ItemID      string          `json:"item_id,omitempty"`
	ItemKind    domain.ItemKind `json:"item_kind,omitempty"`
	Order       int             `json:"order,omitempty"`
	Title       string          `json:"title"`
	DurationMin int             `json:"duration_min"`
	StartMin    int             `json:"start_min"`
	EndMin      int             `json:"end_min"`
	In          string          `json:"in"`
	Out         string          `json:"out"`
	Inserted    bool            `json:"inserted,omitempty"`
}

type Sheet struct {
	ShowID   string  `json:"show_id"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	TotalMin int     `json:"total_min"`
	Entries  []Entry `json:"entries"`
}

type Options struct {
	// GapMin is the changeover after every entry.
	GapMin       int
	DefaultStart string
}

func DefaultOptions() Options {
	return Options{GapMin: 2, DefaultStart: timeline.DefaultStart}
}

// Build walks the items in order, advancing a cursor by each duration plus
// the changeover gap. The show's break-after-item pause is inserted right
// after the matching item.
func Build(show domain.Show, items []domain.ShowItem, opts Options) Sheet {
	gap := max(opts.GapMin, 0)
	start := timeline.StartOrDefault(show.StartTime, opts.DefaultStart)
	sorted := append([]domain.ShowItem{}, items...)
	domain.SortByOrder(sorted)

	sheet := Sheet{ShowID: show.ID, Start: timeline.FormatClock(start), Entries: []Entry{}}
	cursor := start
	for _, it := range sorted {
		kind := EntryAct
		if !it.Kind.Performs() {
			kind = EntryBreak
		}
		dur := max(it.DurationMin, 0)
		sheet.Entries = append(sheet.Entries, entry(kind, cursor, dur, Entry{
			ItemID:   it.ID,
			ItemKind: it.Kind,
			Order:    it.Order,
			Title:    it.Title,
		}))
		cursor += dur + gap
		if show.BreakAfterItem > 0 && show.BreakMinutes > 0 && it.Order == show.BreakAfterItem {
			sheet.Entries = append(sheet.Entries, entry(EntryBreak, cursor, show.BreakMinutes, Entry{
				Title:    "Break",
				Inserted: true,
			}))
			cursor += show.BreakMinutes + gap
		}
	}
	sheet.TotalMin = max(cursor-start, 0)
	sheet.End = timeline.FormatClock(start + sheet.TotalMin)
	return sheet
}

func entry(kind EntryKind, at, dur int, e Entry) Entry {
	e.Kind = kind
	e.DurationMin = dur
	e.StartMin = at
	e.EndMin = at + dur
	e.In = timeline.FormatClock(at)
	e.Out = timeline.FormatClock(at + dur)
	return e
}
