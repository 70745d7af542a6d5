package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/mealmate/internal/presenter"
	"github.com/kailas-cloud/mealmate/internal/transport/terminal"
)

// StatusCmd returns the status command.
func StatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the swipes left this week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, opts, nil)
		},
	}
}

// UpCmd returns the up command.
func UpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Give one swipe back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, opts, func(ctx context.Context, b *presenter.Binder) presenter.View {
				return b.Increment(ctx)
			})
		},
	}
}

// DownCmd returns the down command.
func DownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Use one swipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, opts, func(ctx context.Context, b *presenter.Binder) presenter.View {
				return b.Decrement(ctx)
			})
		},
	}
}

// SetCmd returns the set command.
func SetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set COUNT",
		Short: "Set the swipes left this week",
		Long:  "Set the swipes left this week. Values outside 0..limit are clamped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("count must be an integer, got %q", args[0])
			}
			return runOnce(cmd, opts, func(ctx context.Context, b *presenter.Binder) presenter.View {
				return b.Set(ctx, n)
			})
		},
	}
}

// action is a one-shot binder event.
type action func(ctx context.Context, b *presenter.Binder) presenter.View

// runOnce mounts a binder, applies act if any and prints the resulting view.
func runOnce(cmd *cobra.Command, opts *options, act action) error {
	ctx := cmd.Context()
	app, logger, err := opts.bootstrap(ctx, "warn")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer app.Close()

	b := app.Binder(presenter.Targets{})
	defer b.Close()

	v := b.Mount(ctx)
	if act != nil {
		v = act(ctx, b)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), terminal.Format(v))
	return err
}
