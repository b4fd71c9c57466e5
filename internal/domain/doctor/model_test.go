package doctor

import (
	"testing"
	"time"
)

func weekdayWindow() Availability {
	return Availability{
		Days:      []string{"Monday", "Wednesday", "Friday"},
		StartTime: "09:00:00",
		EndTime:   "17:00:00",
	}
}

func TestAvailability_Covers(t *testing.T) {
	a := weekdayWindow()

	// 2026-09-07 is a Monday, 2026-09-08 a Tuesday. Both bounds of the
	// window are inclusive.
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"inside window", time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC), true},
		{"start boundary", time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), true},
		{"end boundary", time.Date(2026, 9, 7, 17, 0, 0, 0, time.UTC), true},
		{"before start", time.Date(2026, 9, 7, 8, 59, 59, 0, time.UTC), false},
		{"after end", time.Date(2026, 9, 7, 17, 0, 1, 0, time.UTC), false},
		{"unlisted day", time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Covers(tt.at); got != tt.want {
				t.Errorf("Covers(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestAvailability_Covers_NormalizesToUTC(t *testing.T) {
	a := weekdayWindow()

	// 08:30 UTC+2 on Monday is 06:30 UTC, outside the window.
	loc := time.FixedZone("UTC+2", 2*60*60)
	early := time.Date(2026, 9, 7, 8, 30, 0, 0, loc)
	if a.Covers(early) {
		t.Error("expected 06:30 UTC to be outside the window")
	}

	// 11:30 UTC+2 on Monday is 09:30 UTC, inside the window.
	inside := time.Date(2026, 9, 7, 11, 30, 0, 0, loc)
	if !a.Covers(inside) {
		t.Error("expected 09:30 UTC to be inside the window")
	}

	// 01:00 UTC+3 on Tuesday is 22:00 UTC Monday: day flips across the zone.
	loc3 := time.FixedZone("UTC+3", 3*60*60)
	flipped := time.Date(2026, 9, 8, 1, 0, 0, 0, loc3)
	if a.Covers(flipped) {
		t.Error("expected 22:00 UTC Monday to be outside the 09-17 window")
	}
}

func TestAvailability_Covers_EmptyDays(t *testing.T) {
	a := Availability{StartTime: "00:00:00", EndTime: "23:59:59"}
	if a.Covers(time.Now()) {
		t.Error("expected empty day list to cover nothing")
	}
}
