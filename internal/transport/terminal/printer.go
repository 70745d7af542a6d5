// Package terminal renders the quota on a terminal and runs the interactive
// watch loop.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/kailas-cloud/mealmate/internal/presenter"
)

var (
	exhausted = color.New(color.FgRed, color.Bold)
	low       = color.New(color.FgYellow, color.Bold)
	plenty    = color.New(color.FgGreen, color.Bold)
	dim       = color.New(color.Faint)
)

// Printer is a presenter.Observer that writes one line per render.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Rendered prints v.
func (p *Printer) Rendered(v presenter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, Format(v))
}

// Format renders v as a single line.
func Format(v presenter.View) string {
	count := countColor(v.Count, v.Max).Sprintf("%d", v.Count)
	return fmt.Sprintf("Swipes left: %s/%d  %s", count, v.Max, dim.Sprint(v.Countdown))
}

// countColor is red when nothing is left, yellow below half, green otherwise.
func countColor(count, limit int) *color.Color {
	switch {
	case count <= 0:
		return exhausted
	case count*2 < limit:
		return low
	default:
		return plenty
	}
}
