//go:build unix

package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ResumeSignals reports every SIGCONT until ctx is done.
func ResumeSignals(ctx context.Context) <-chan struct{} {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGCONT)

	out := make(chan struct{}, 1)
	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}
