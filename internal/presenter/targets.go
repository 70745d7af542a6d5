package presenter

import "sync"

// CounterDisplay shows the remaining count.
type CounterDisplay interface {
	ShowCount(n int)
}

// TextDisplay shows a line of text.
type TextDisplay interface {
	ShowText(s string)
}

// Control is a clickable affordance that can be disabled.
type Control interface {
	SetEnabled(enabled bool)
}

// Observer receives every rendered view as a whole.
type Observer interface {
	Rendered(v View)
}

// Targets are the render destinations. Any of them may be nil and is then
// skipped.
type Targets struct {
	Counter   CounterDisplay
	Countdown TextDisplay
	Decrement Control
	Increment Control
	Observer  Observer
}

func (t Targets) apply(v View) {
	if t.Counter != nil {
		t.Counter.ShowCount(v.Count)
	}
	if t.Countdown != nil {
		t.Countdown.ShowText(v.Countdown)
	}
	if t.Decrement != nil {
		t.Decrement.SetEnabled(v.DecrementEnabled)
	}
	if t.Increment != nil {
		t.Increment.SetEnabled(v.IncrementEnabled)
	}
	if t.Observer != nil {
		t.Observer.Rendered(v)
	}
}

// Board is an Observer that keeps the last rendered view.
type Board struct {
	mu       sync.RWMutex
	view     View
	rendered bool
}

// Rendered stores v.
func (b *Board) Rendered(v View) {
	b.mu.Lock()
	b.view = v
	b.rendered = true
	b.mu.Unlock()
}

// View returns the last rendered view and whether anything was rendered yet.
func (b *Board) View() (View, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view, b.rendered
}
