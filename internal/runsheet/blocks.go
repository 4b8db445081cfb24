package runsheet

import "backstage/internal/timeline"

type SegmentKind string

const (
	SegmentBlock SegmentKind = "block"
	SegmentBreak SegmentKind = "break"
)

// Segment is a maximal run of consecutive acts, or a single break.
type Segment struct {
	Kind        SegmentKind `json:"kind"`
	ItemIDs     []string    `json:"item_ids"`
	Titles      []string    `json:"titles"`
	Count       int         `json:"count"`
	DurationMin int         `json:"duration_min"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
}

// Blocks groups the sheet's entries into segments. Durations exclude the
// changeover gaps; start and end are the first in-time and last out-time.
func Blocks(sheet Sheet) []Segment {
	var out []Segment
	var cur *Segment
	var lastEnd int
	flush := func() {
		if cur != nil {
			cur.End = timeline.FormatClock(lastEnd)
			out = append(out, *cur)
			cur = nil
		}
	}
	for _, e := range sheet.Entries {
		if e.Kind == EntryBreak {
			flush()
			seg := Segment{
				Kind:        SegmentBreak,
				ItemIDs:     []string{},
				Titles:      []string{e.Title},
				Count:       1,
				DurationMin: e.DurationMin,
				Start:       e.In,
				End:         e.Out,
			}
			if e.ItemID != "" {
				seg.ItemIDs = append(seg.ItemIDs, e.ItemID)
			}
			out = append(out, seg)
			continue
		}
		if cur == nil {
			cur = &Segment{Kind: SegmentBlock, ItemIDs: []string{}, Titles: []string{}, Start: e.In}
		}
		cur.ItemIDs = append(cur.ItemIDs, e.ItemID)
		cur.Titles = append(cur.Titles, e.Title)
		cur.Count++
		cur.DurationMin += e.DurationMin
		lastEnd = e.EndMin
	}
	flush()
	return out
}
