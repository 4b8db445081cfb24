package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	headsetSlotPrefix  = "HS"
	handheldSlotPrefix = "HH"
)

// Channel is an addressable microphone slot: either a persisted Mic or a
// slot generated from the show's headset/handheld counts.
type Channel struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Kind  MicKind `json:"kind,omitempty"`
	Slot  bool    `json:"slot"`
}

// SlotChannelID returns the generated id for the n-th (1-based) slot.
func SlotChannelID(kind MicKind, n int) string {
	if kind == MicHandheld {
		return fmt.Sprintf("%s%d", handheldSlotPrefix, n)
	}
	return fmt.Sprintf("%s%d", headsetSlotPrefix, n)
}

// IsSlotChannel reports whether id has the HS{n}/HH{n} shape.
func IsSlotChannel(id string) bool {
	var rest string
	switch {
	case strings.HasPrefix(id, headsetSlotPrefix):
		rest = strings.TrimPrefix(id, headsetSlotPrefix)
	case strings.HasPrefix(id, handheldSlotPrefix):
		rest = strings.TrimPrefix(id, handheldSlotPrefix)
	default:
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n > 0
}

// Channels lists a show's persisted mics followed by its generated slots.
func (s State) Channels(showID string) []Channel {
	var out []Channel
	for _, m := range s.MicsOf(showID) {
		out = append(out, Channel{ID: m.ID, Label: m.Name, Kind: m.Kind})
	}
	show, ok := s.FindShow(showID)
	if !ok {
		return out
	}
	for i := 1; i <= show.Headsets; i++ {
		id := SlotChannelID(MicHeadset, i)
		out = append(out, Channel{ID: id, Label: id, Kind: MicHeadset, Slot: true})
	}
	for i := 1; i <= show.Handhelds; i++ {
		id := SlotChannelID(MicHandheld, i)
		out = append(out, Channel{ID: id, Label: id, Kind: MicHandheld, Slot: true})
	}
	return out
}
