package presenter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/domain/calendar"
	domquota "github.com/kailas-cloud/mealmate/internal/domain/quota"
)

// DefaultTickInterval is how often the countdown is refreshed without a
// mutation.
const DefaultTickInterval = 30 * time.Minute

// Tracker is the quota state machine driven by the binder.
type Tracker interface {
	Initialize(ctx context.Context, now time.Time) domquota.State
	SetCount(ctx context.Context, n int) domquota.State
	Increment(ctx context.Context) domquota.State
	Decrement(ctx context.Context) domquota.State
	ReconcileOnResume(ctx context.Context, now time.Time) (domquota.State, bool)
	Snapshot() domquota.State
	Limit() int
	Week() calendar.Week
	Location() *time.Location
}

// Binder connects a Tracker to render targets. Every event runs to
// completion, mutation and write included, before the next one starts.
type Binder struct {
	mu       sync.Mutex
	tracker  Tracker
	targets  Targets
	clock    func() time.Time
	interval time.Duration
	logger   *zap.Logger

	stopTick context.CancelFunc
	tickDone chan struct{}
}

// New creates a Binder.
func New(tracker Tracker, targets Targets, logger *zap.Logger) *Binder {
	return &Binder{
		tracker:  tracker,
		targets:  targets,
		clock:    time.Now,
		interval: DefaultTickInterval,
		logger:   logger,
	}
}

// WithClock replaces the clock.
func (b *Binder) WithClock(clock func() time.Time) *Binder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// WithTickInterval sets the countdown refresh interval.
func (b *Binder) WithTickInterval(d time.Duration) *Binder {
	if d > 0 {
		b.interval = d
	}
	return b
}

// Mount initializes the tracker, renders, and (re)arms the periodic tick.
// The tick stops when ctx is done or Close is called.
func (b *Binder) Mount(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tracker.Initialize(ctx, b.clock())
	v := b.renderLocked()
	b.armLocked(ctx)
	return v
}

// Increment handles the increment control.
func (b *Binder) Increment(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tracker.Increment(ctx)
	return b.renderLocked()
}

// Decrement handles the decrement control.
func (b *Binder) Decrement(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tracker.Decrement(ctx)
	return b.renderLocked()
}

// Set stores an explicit count.
func (b *Binder) Set(ctx context.Context, n int) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tracker.SetCount(ctx, n)
	return b.renderLocked()
}

// Key handles a keyboard shortcut: u increments, d decrements. Reports
// whether the key was bound.
func (b *Binder) Key(ctx context.Context, r rune) (View, bool) {
	switch r {
	case 'u', 'U':
		return b.Increment(ctx), true
	case 'd', 'D':
		return b.Decrement(ctx), true
	default:
		return View{}, false
	}
}

// Resume handles the front end coming back to the foreground: a week
// boundary crossed in the meantime resets the quota before rendering.
func (b *Binder) Resume(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, reset := b.tracker.ReconcileOnResume(ctx, b.clock()); reset {
		b.logger.Info("Quota reset on resume")
	}
	return b.renderLocked()
}

// Render re-renders the current state; the periodic tick calls it.
func (b *Binder) Render() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderLocked()
}

// Close stops the periodic tick and waits for it to exit.
func (b *Binder) Close() {
	b.mu.Lock()
	stop, done := b.stopTick, b.tickDone
	b.stopTick, b.tickDone = nil, nil
	b.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

func (b *Binder) renderLocked() View {
	now := b.clock().In(b.tracker.Location())
	v := Render(b.tracker.Snapshot(), b.tracker.Limit(), b.tracker.Week(), now)
	b.targets.apply(v)
	return v
}

// armLocked is the only place a tick is started; any previous tick is
// cancelled first so a re-mount never leaves two running.
func (b *Binder) armLocked(ctx context.Context) {
	if b.stopTick != nil {
		b.stopTick()
	}

	tickCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	b.stopTick, b.tickDone = cancel, done

	go func(interval time.Duration) {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				if tickCtx.Err() != nil {
					return
				}
				b.Render()
			}
		}
	}(b.interval)
}
