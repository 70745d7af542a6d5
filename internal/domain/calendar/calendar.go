// Package calendar computes allowance-week boundaries on local wall-clock days.
//
// A week starts at local midnight of its anchor weekday. The anchor of the
// week containing an instant is serialized as the local calendar date in UTC
// ISO-8601 form, so every instant of the same local day maps to the same
// string regardless of the time of day or the UTC offset in effect.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// AnchorLayout is the serialization layout of a week anchor.
const AnchorLayout = "2006-01-02T15:04:05.000Z"

const day = 24 * time.Hour

// Week describes an allowance week by the weekday it starts on.
type Week struct {
	Anchor time.Weekday
}

// Thursday is the default allowance week.
var Thursday = Week{Anchor: time.Thursday}

// AnchorStart returns local midnight of the most recent anchor weekday,
// today included. The result is in now's location.
func (w Week) AnchorStart(now time.Time) time.Time {
	back := (int(now.Weekday()) - int(w.Anchor) + 7) % 7
	return time.Date(now.Year(), now.Month(), now.Day()-back, 0, 0, 0, 0, now.Location())
}

// CurrentAnchor returns the serialized anchor of the week containing now.
func (w Week) CurrentAnchor(now time.Time) string {
	return Serialize(w.AnchorStart(now))
}

// NextAnchor returns local midnight of the next anchor weekday strictly after
// today. On the anchor weekday itself it returns the same weekday next week.
func (w Week) NextAnchor(now time.Time) time.Time {
	ahead := (int(w.Anchor) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return time.Date(now.Year(), now.Month(), now.Day()+ahead, 0, 0, 0, 0, now.Location())
}

// DaysUntilNext returns the whole days left until NextAnchor, counting a
// partial day as a full one. The result is always at least 1.
func (w Week) DaysUntilNext(now time.Time) int {
	diff := w.NextAnchor(now).Sub(now)
	days := int((diff + day - 1) / day)
	if days < 1 {
		return 1
	}
	return days
}

// CurrentWeekAnchor is Thursday.CurrentAnchor.
func CurrentWeekAnchor(now time.Time) string { return Thursday.CurrentAnchor(now) }

// NextAnchor is Thursday.NextAnchor.
func NextAnchor(now time.Time) time.Time { return Thursday.NextAnchor(now) }

// DaysUntilNextAnchor is Thursday.DaysUntilNext.
func DaysUntilNextAnchor(now time.Time) int { return Thursday.DaysUntilNext(now) }

// Serialize renders the local calendar date of t as an anchor string.
func Serialize(t time.Time) string {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(AnchorLayout)
}

// ParseWeekday parses a weekday name such as "thursday" or "Thu".
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
