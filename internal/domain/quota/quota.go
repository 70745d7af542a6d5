package quota

import (
	"strconv"
	"strings"
)

// DefaultWeeklyLimit is the number of swipes granted per week.
const DefaultWeeklyLimit = 7

// State is the in-memory quota for one allowance week.
type State struct {
	Count      int
	WeekAnchor string
}

// Clamp bounds n to [0, limit].
func Clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}

// ParseCount parses a persisted count. Anything that is not a non-negative
// decimal integer reads as 0.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatCount renders a count for persistence.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}
