package calendar

import (
	"testing"
	"time"
)

var est = time.FixedZone("EST", -5*60*60)

// 2026-10-15 is a Thursday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, est)
}

func TestCurrentWeekAnchor_Format(t *testing.T) {
	got := CurrentWeekAnchor(at(17, 15, 30))
	if got != "2026-10-15T00:00:00.000Z" {
		t.Errorf("CurrentWeekAnchor() = %q", got)
	}
}

func TestCurrentWeekAnchor_StableWithinDay(t *testing.T) {
	for d := 12; d <= 25; d++ {
		first := CurrentWeekAnchor(at(d, 0, 0))
		last := CurrentWeekAnchor(time.Date(2026, time.October, d, 23, 59, 59, 999999999, est))
		if first != last {
			t.Errorf("day %d: %q != %q", d, first, last)
		}
	}
}

func TestCurrentWeekAnchor_ChangesAtAnchorMidnight(t *testing.T) {
	before := CurrentWeekAnchor(time.Date(2026, time.October, 21, 23, 59, 59, 0, est))
	after := CurrentWeekAnchor(at(22, 0, 0))

	if before != "2026-10-15T00:00:00.000Z" {
		t.Errorf("Wednesday anchor = %q", before)
	}
	if after != "2026-10-22T00:00:00.000Z" {
		t.Errorf("Thursday anchor = %q", after)
	}
}

func TestCurrentWeekAnchor_UnchangedAtOtherMidnights(t *testing.T) {
	for d := 15; d < 21; d++ {
		a := CurrentWeekAnchor(time.Date(2026, time.October, d, 23, 59, 59, 0, est))
		b := CurrentWeekAnchor(at(d+1, 0, 0))
		if a != b {
			t.Errorf("anchor changed between day %d and %d: %q -> %q", d, d+1, a, b)
		}
	}
}

func TestCurrentWeekAnchor_IndependentOfOffset(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	a := CurrentWeekAnchor(time.Date(2026, time.October, 16, 1, 0, 0, 0, tokyo))
	b := CurrentWeekAnchor(at(16, 23, 0))
	if a != b {
		t.Errorf("same local date in different zones: %q != %q", a, b)
	}
}

func TestAnchorStart_AcrossMonth(t *testing.T) {
	got := Thursday.AnchorStart(time.Date(2026, time.November, 3, 12, 0, 0, 0, est))
	want := time.Date(2026, time.October, 29, 0, 0, 0, 0, est)
	if !got.Equal(want) {
		t.Errorf("AnchorStart() = %v, want %v", got, want)
	}
	if got.Weekday() != time.Thursday {
		t.Errorf("AnchorStart() weekday = %v", got.Weekday())
	}
}

func TestNextAnchor(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"thursday is next week", at(15, 0, 0), at(22, 0, 0)},
		{"thursday evening", at(15, 23, 0), at(22, 0, 0)},
		{"friday", at(16, 9, 0), at(22, 0, 0)},
		{"wednesday", at(21, 12, 0), at(22, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextAnchor(tc.now)
			if !got.Equal(tc.want) {
				t.Errorf("NextAnchor() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDaysUntilNextAnchor(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"thursday midnight", at(15, 0, 0), 7},
		{"thursday noon", at(15, 12, 0), 7},
		{"friday morning", at(16, 8, 0), 6},
		{"wednesday noon", at(21, 12, 0), 1},
		{"seconds before rollover", time.Date(2026, time.October, 21, 23, 59, 59, 0, est), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntilNextAnchor(tc.now); got != tc.want {
				t.Errorf("DaysUntilNextAnchor() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDaysUntilNextAnchor_AlwaysPositive(t *testing.T) {
	start := at(1, 0, 0)
	for i := 0; i < 24*60; i++ {
		now := start.Add(time.Duration(i) * 37 * time.Minute)
		if d := DaysUntilNextAnchor(now); d < 1 || d > 7 {
			t.Fatalf("DaysUntilNextAnchor(%v) = %d", now, d)
		}
	}
}

func TestDaysUntilNext_DST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST ends on Sunday 2026-11-01; the following Thursday is 2026-11-05.
	now := time.Date(2026, time.October, 31, 12, 0, 0, 0, loc)
	if got := Thursday.DaysUntilNext(now); got != 5 {
		t.Errorf("DaysUntilNext() = %d, want 5", got)
	}
	if got := Thursday.CurrentAnchor(now); got != "2026-10-29T00:00:00.000Z" {
		t.Errorf("CurrentAnchor() = %q", got)
	}
}

func TestWeek_OtherAnchor(t *testing.T) {
	monday := Week{Anchor: time.Monday}
	if got := monday.CurrentAnchor(at(15, 10, 0)); got != "2026-10-12T00:00:00.000Z" {
		t.Errorf("CurrentAnchor() = %q", got)
	}
	if got := monday.DaysUntilNext(at(18, 12, 0)); got != 1 {
		t.Errorf("DaysUntilNext() = %d, want 1", got)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"thursday", time.Thursday, false},
		{"Thursday", time.Thursday, false},
		{" thu ", time.Thursday, false},
		{"SUN", time.Sunday, false},
		{"saturday", time.Saturday, false},
		{"th", 0, true},
		{"funday", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseWeekday(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseWeekday(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWeekday(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
