package quota

import "context"

// StateStore is the persistence adapter for quota state. Get reports absence
// instead of failing; Set reports whether the write landed.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) bool
}

// Keys name the two persisted entries.
type Keys struct {
	WeekStart string
	Used      string
}

// DefaultKeyPrefix is the prefix of the persisted keys.
const DefaultKeyPrefix = "mealmate_"

// KeysWithPrefix derives the persisted key names from a prefix.
func KeysWithPrefix(prefix string) Keys {
	return Keys{
		WeekStart: prefix + "week_start",
		Used:      prefix + "used",
	}
}
