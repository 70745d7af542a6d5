package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/presenter"
)

const help = "u: use a swipe back  d: use a swipe  r: refresh  q: quit"

// Binder is the presentation binder as driven from a terminal.
type Binder interface {
	Mount(ctx context.Context) presenter.View
	Key(ctx context.Context, r rune) (presenter.View, bool)
	Resume(ctx context.Context) presenter.View
	Render() presenter.View
	Close()
}

// Watch is the interactive loop. Renders reach the terminal through the
// binder's observer; Watch itself only prints help.
type Watch struct {
	binder Binder
	in     io.Reader
	out    io.Writer
	resume <-chan struct{}
	logger *zap.Logger
}

// NewWatch creates a Watch reading commands from in.
func NewWatch(binder Binder, in io.Reader, out io.Writer, logger *zap.Logger) *Watch {
	return &Watch{binder: binder, in: in, out: out, logger: logger}
}

// WithResume sets the channel that signals the process came back from
// suspension.
func (w *Watch) WithResume(resume <-chan struct{}) *Watch {
	w.resume = resume
	return w
}

// Run mounts the binder and processes input until q, end of input or ctx is
// done.
func (w *Watch) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.binder.Mount(ctx)
	defer w.binder.Close()
	_, _ = fmt.Fprintln(w.out, dim.Sprint(help))

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanErr <- scanLines(ctx, w.in, lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.resume:
			w.logger.Debug("Process resumed")
			w.binder.Resume(ctx)
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := w.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (w *Watch) handle(ctx context.Context, line string) bool {
	cmd := strings.TrimSpace(line)
	switch strings.ToLower(cmd) {
	case "":
		return false
	case "q", "quit", "exit":
		return true
	case "r", "refresh":
		w.binder.Render()
		return false
	}

	for _, r := range cmd {
		if _, ok := w.binder.Key(ctx, r); !ok {
			_, _ = fmt.Fprintln(w.out, dim.Sprint(help))
			break
		}
	}
	return false
}

func scanLines(ctx context.Context, in io.Reader, lines chan<- string) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			return nil
		}
	}
	return sc.Err()
}
