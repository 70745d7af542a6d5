// Package presenter turns quota state into what a front end shows and routes
// user and environment events back into the quota tracker.
package presenter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/mealmate/internal/domain/calendar"
	domquota "github.com/kailas-cloud/mealmate/internal/domain/quota"
)

// View is everything a front end renders.
type View struct {
	Count            int       `json:"count"`
	Max              int       `json:"max"`
	WeekAnchor       string    `json:"week_anchor"`
	DaysUntilReset   int       `json:"days_until_reset"`
	Countdown        string    `json:"countdown"`
	ResetsAt         time.Time `json:"resets_at"`
	DecrementEnabled bool      `json:"decrement_enabled"`
	IncrementEnabled bool      `json:"increment_enabled"`
}

// Render builds the view of st at now.
func Render(st domquota.State, limit int, week calendar.Week, now time.Time) View {
	days := week.DaysUntilNext(now)
	return View{
		Count:            st.Count,
		Max:              limit,
		WeekAnchor:       st.WeekAnchor,
		DaysUntilReset:   days,
		Countdown:        CountdownText(days),
		ResetsAt:         week.NextAnchor(now),
		DecrementEnabled: st.Count > 0,
		IncrementEnabled: st.Count < limit,
	}
}

// CountdownText formats the reset countdown.
func CountdownText(days int) string {
	if days > 1 {
		return fmt.Sprintf("Resetting in %d days", days)
	}
	return fmt.Sprintf("Resetting in %d day", days)
}
