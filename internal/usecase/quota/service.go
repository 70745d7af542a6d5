package quota

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/domain/calendar"
	domquota "github.com/kailas-cloud/mealmate/internal/domain/quota"
	"github.com/kailas-cloud/mealmate/internal/metrics"
)

// Reset triggers, used as metric labels.
const (
	TriggerFirstRun = "first_run"
	TriggerRollover = "rollover"
	TriggerResume   = "resume"
)

// Tracker is the weekly quota state machine. It owns the in-memory count and
// week anchor and mirrors both to a StateStore on every change.
//
// A week is current while its anchor string equals the anchor computed for
// the clock; any difference means the stored state belongs to a stale week.
type Tracker struct {
	mu     sync.Mutex
	state  domquota.State
	limit  int
	week   calendar.Week
	loc    *time.Location
	clock  func() time.Time
	keys   Keys
	store  StateStore
	logger *zap.Logger
}

// NewTracker creates a tracker with a Thursday week, the local time zone and
// the default keys. A non-positive limit falls back to the default.
func NewTracker(store StateStore, limit int, logger *zap.Logger) *Tracker {
	if limit <= 0 {
		limit = domquota.DefaultWeeklyLimit
	}
	return &Tracker{
		limit:  limit,
		week:   calendar.Thursday,
		loc:    time.Local,
		clock:  time.Now,
		keys:   KeysWithPrefix(DefaultKeyPrefix),
		store:  store,
		logger: logger,
	}
}

// WithWeek sets the anchor weekday.
func (t *Tracker) WithWeek(w calendar.Week) *Tracker {
	t.week = w
	return t
}

// WithLocation sets the time zone whose midnights bound the week.
func (t *Tracker) WithLocation(loc *time.Location) *Tracker {
	if loc != nil {
		t.loc = loc
	}
	return t
}

// WithClock replaces the clock read by SetCount.
func (t *Tracker) WithClock(clock func() time.Time) *Tracker {
	if clock != nil {
		t.clock = clock
	}
	return t
}

// WithKeys sets the persisted key names.
func (t *Tracker) WithKeys(k Keys) *Tracker {
	t.keys = k
	return t
}

// Limit returns the weekly allotment.
func (t *Tracker) Limit() int { return t.limit }

// Week returns the allowance week definition.
func (t *Tracker) Week() calendar.Week { return t.week }

// Location returns the time zone of the week boundaries.
func (t *Tracker) Location() *time.Location { return t.loc }

// Snapshot returns the current state.
func (t *Tracker) Snapshot() domquota.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Initialize loads persisted state for the week containing now:
// nothing stored grants the full allotment, a stored anchor from another
// week resets the count to zero, and the same week keeps the stored count
// (unparseable reads as zero). The result is always written back.
func (t *Tracker) Initialize(ctx context.Context, now time.Time) domquota.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	anchor := t.week.CurrentAnchor(now.In(t.loc))
	storedAnchor, ok := t.store.Get(ctx, t.keys.WeekStart)

	var count int
	switch {
	case !ok || storedAnchor == "":
		count = t.limit
		t.countReset(TriggerFirstRun)
		t.logger.Info("No stored week, granting full quota",
			zap.String("week_anchor", anchor),
			zap.Int("count", count),
		)
	case storedAnchor != anchor:
		count = 0
		t.countReset(TriggerRollover)
		t.logger.Info("Week rolled over, quota reset",
			zap.String("stored_anchor", storedAnchor),
			zap.String("week_anchor", anchor),
		)
	default:
		raw, _ := t.store.Get(ctx, t.keys.Used)
		count = domquota.Clamp(domquota.ParseCount(raw), t.limit)
		if raw != domquota.FormatCount(count) {
			t.logger.Warn("Stored count repaired",
				zap.String("stored", raw),
				zap.Int("count", count),
			)
		}
	}

	t.state = domquota.State{Count: count, WeekAnchor: anchor}
	t.persist(ctx)
	return t.state
}

// SetCount clamps n to [0, limit] and persists it under the anchor of the
// clock's current week. The anchor is recomputed on every write so a write
// at a week boundary lands in the new week.
func (t *Tracker) SetCount(ctx context.Context, n int) domquota.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	metrics.QuotaMutationsTotal.WithLabelValues("set").Inc()
	return t.setLocked(ctx, n)
}

// Increment adds one swipe back, unless the count is already at the limit.
func (t *Tracker) Increment(ctx context.Context) domquota.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Count >= t.limit {
		return t.state
	}
	metrics.QuotaMutationsTotal.WithLabelValues("increment").Inc()
	return t.setLocked(ctx, t.state.Count+1)
}

// Decrement uses one swipe, unless none are left.
func (t *Tracker) Decrement(ctx context.Context) domquota.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Count <= 0 {
		return t.state
	}
	metrics.QuotaMutationsTotal.WithLabelValues("decrement").Inc()
	return t.setLocked(ctx, t.state.Count-1)
}

// ReconcileOnResume handles a boundary crossed while the process was
// suspended: if the persisted anchor differs from the one computed for now,
// the count drops to zero under the new anchor. When the persisted anchor
// cannot be read the in-memory anchor stands in for it. Reports whether a
// reset happened.
func (t *Tracker) ReconcileOnResume(ctx context.Context, now time.Time) (domquota.State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	anchor := t.week.CurrentAnchor(now.In(t.loc))
	stored, ok := t.store.Get(ctx, t.keys.WeekStart)
	if !ok {
		stored = t.state.WeekAnchor
	}
	if stored == anchor {
		return t.state, false
	}

	t.logger.Info("Week boundary crossed while suspended, quota reset",
		zap.String("stored_anchor", stored),
		zap.String("week_anchor", anchor),
	)
	t.state = domquota.State{Count: 0, WeekAnchor: anchor}
	t.countReset(TriggerResume)
	t.persist(ctx)
	return t.state, true
}

func (t *Tracker) setLocked(ctx context.Context, n int) domquota.State {
	t.state = domquota.State{
		Count:      domquota.Clamp(n, t.limit),
		WeekAnchor: t.week.CurrentAnchor(t.clock().In(t.loc)),
	}
	t.persist(ctx)
	return t.state
}

// persist writes the anchor first, then the count. Failures are already
// logged by the store; the in-memory state stays authoritative.
func (t *Tracker) persist(ctx context.Context) {
	okWeek := t.store.Set(ctx, t.keys.WeekStart, t.state.WeekAnchor)
	okUsed := t.store.Set(ctx, t.keys.Used, domquota.FormatCount(t.state.Count))
	metrics.SwipesRemaining.Set(float64(t.state.Count))

	t.logger.Debug("Quota persisted",
		zap.String("week_anchor", t.state.WeekAnchor),
		zap.Int("count", t.state.Count),
		zap.Bool("stored", okWeek && okUsed),
	)
}

func (t *Tracker) countReset(trigger string) {
	metrics.WeekResetsTotal.WithLabelValues(trigger).Inc()
}
