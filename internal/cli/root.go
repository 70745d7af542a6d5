// Package cli holds the mealmate cobra commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/config"
	logpkg "github.com/kailas-cloud/mealmate/internal/logger"
	"github.com/kailas-cloud/mealmate/internal/version"
	"github.com/kailas-cloud/mealmate/internal/wire"
)

// options are the persistent flags shared by every command.
type options struct {
	env        string
	configPath string
	logLevel   string
}

// RootCmd returns the mealmate root command with all subcommands attached.
func RootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "mealmate",
		Short:   "Track the weekly meal swipe allowance",
		Version: version.String(),
		Long: `mealmate keeps count of the meal swipes left this week.
The allowance refills every Thursday at local midnight.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.env, "env", "", "environment: local, dev, docker, prod (default $ENV or local)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default config/<env>.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(ServeCmd(opts))
	root.AddCommand(StatusCmd(opts))
	root.AddCommand(UpCmd(opts))
	root.AddCommand(DownCmd(opts))
	root.AddCommand(SetCmd(opts))
	root.AddCommand(WatchCmd(opts))
	return root
}

func (o *options) environment() string {
	if o.env != "" {
		return o.env
	}
	return config.GetEnv()
}

func (o *options) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load(o.environment())
}

// bootstrap loads configuration, builds the logger and assembles the app.
// quietLevel applies when neither the flag nor the config sets a level.
func (o *options) bootstrap(ctx context.Context, quietLevel string) (*wire.App, *zap.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := o.logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	if level == "" {
		level = quietLevel
	}

	logger, err := logpkg.NewLogger(o.environment(), logpkg.Options{
		Level:      level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	app, err := wire.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("start: %w", err)
	}
	return app, logger, nil
}
