package timeline

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"19:30", 1170, true},
		{"00:00", 0, true},
		{"7:05", 425, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12:5", 0, false},
		{"", 0, false},
		{"noon", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseClock(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatClockWraps(t *testing.T) {
	cases := map[int]string{
		1170: "19:30",
		1450: "00:10",
		-10:  "23:50",
		2880: "00:00",
		0:    "00:00",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %s want %s", in, got, want)
		}
	}
}

func TestStartOrDefault(t *testing.T) {
	if got := StartOrDefault("", ""); got != 1170 {
		t.Fatalf("expected 19:30 default, got %d", got)
	}
	if got := StartOrDefault("bogus", "20:00"); got != 1200 {
		t.Fatalf("expected fallback 20:00, got %d", got)
	}
	if got := StartOrDefault("18:15", "20:00"); got != 1095 {
		t.Fatalf("expected 18:15, got %d", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(45); got != "45m" {
		t.Fatalf("got %s", got)
	}
	if got := FormatDuration(65); got != "1h05" {
		t.Fatalf("got %s", got)
	}
	if got := FormatDuration(-3); got != "0m" {
		t.Fatalf("got %s", got)
	}
}
