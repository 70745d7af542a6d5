package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/mealmate/internal/presenter"
	"github.com/kailas-cloud/mealmate/internal/transport/terminal"
)

// WatchCmd returns the watch command.
func WatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Interactive counter",
		Long: `Show the counter and keep it current.

Commands, one per line:
  u  give one swipe back
  d  use one swipe
  r  refresh
  q  quit

The countdown refreshes on its own, and the week is re-checked when the
process resumes after being suspended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			app, logger, err := opts.bootstrap(ctx, "warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer app.Close()

			out := cmd.OutOrStdout()
			binder := app.Binder(presenter.Targets{Observer: terminal.NewPrinter(out)})

			return terminal.NewWatch(binder, cmd.InOrStdin(), out, logger).
				WithResume(terminal.ResumeSignals(ctx)).
				Run(ctx)
		},
	}
}
