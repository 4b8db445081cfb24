// Package timeline converts between wall-clock strings and minute offsets.
package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60
	DefaultStart  = "19:30"
)

// ParseClock parses "HH:MM" (or "H:MM") into minutes after midnight.
func ParseClock(s string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	if len(mm) != 2 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// Normalize folds any minute value into 0..1439.
func Normalize(min int) int {
	min %= MinutesPerDay
	if min < 0 {
		min += MinutesPerDay
	}
	return min
}

// FormatClock renders minutes as "HH:MM", wrapping around midnight.
func FormatClock(min int) string {
	min = Normalize(min)
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// StartOrDefault parses s, falling back to fallback and then to 19:30.
func StartOrDefault(s, fallback string) int {
	if m, ok := ParseClock(s); ok {
		return m
	}
	if m, ok := ParseClock(fallback); ok {
		return m
	}
	m, _ := ParseClock(DefaultStart)
	return m
}

// FormatDuration renders a minute count as "45m" or "1h05".
func FormatDuration(min int) string {
	if min < 0 {
		min = 0
	}
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	return fmt.Sprintf("%dh%02d", min/60, min%60)
}
