//go:build !unix

package terminal

import "context"

// ResumeSignals never fires where SIGCONT does not exist.
func ResumeSignals(_ context.Context) <-chan struct{} {
	return make(chan struct{})
}
