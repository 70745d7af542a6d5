// Package wire is the composition root: it builds the object graph from
// configuration.
package wire

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/config"
	"github.com/kailas-cloud/mealmate/internal/db"
	"github.com/kailas-cloud/mealmate/internal/db/memory"
	dbRedis "github.com/kailas-cloud/mealmate/internal/db/redis"
	"github.com/kailas-cloud/mealmate/internal/db/sqlite"
	"github.com/kailas-cloud/mealmate/internal/domain"
	"github.com/kailas-cloud/mealmate/internal/metrics"
	"github.com/kailas-cloud/mealmate/internal/presenter"
	"github.com/kailas-cloud/mealmate/internal/repository/state"
	healthuc "github.com/kailas-cloud/mealmate/internal/usecase/health"
	quotauc "github.com/kailas-cloud/mealmate/internal/usecase/quota"
)

// App is the assembled application.
type App struct {
	Config  config.Config
	Store   db.Store
	Tracker *quotauc.Tracker
	Health  *healthuc.Service
	logger  *zap.Logger
}

// New opens storage and builds the quota tracker. The caller must Close the
// App.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.RegisterQuotaMetrics()

	store, err := OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	tracker, err := NewTracker(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Store:   store,
		Tracker: tracker,
		Health:  healthuc.New(store).WithTimeout(cfg.Storage.Timeout()),
		logger:  logger,
	}, nil
}

// Binder creates a presentation binder over the app's tracker.
func (a *App) Binder(targets presenter.Targets) *presenter.Binder {
	return presenter.New(a.Tracker, targets, a.logger).
		WithTickInterval(a.Config.Quota.TickInterval())
}

// Close releases storage.
func (a *App) Close() {
	a.Store.Close()
}

// OpenStore creates the KV backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Debug("Using in-memory storage")
		return memory.NewStore(), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: open sqlite: %w", domain.ErrStorageUnavailable, err)
		}
		logger.Debug("Opened sqlite storage", zap.String("path", cfg.Path))
		return s, nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create %s client: %w", domain.ErrStorageUnavailable, cfg.Driver, err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("%w: %s not ready: %w", domain.ErrStorageUnavailable, cfg.Driver, err)
		}
		logger.Debug("Connected to storage",
			zap.String("driver", cfg.Driver),
			zap.Strings("addrs", cfg.Addrs),
		)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewTracker builds the quota tracker over kv according to cfg.
func NewTracker(cfg config.Config, kv db.KVStore, logger *zap.Logger) (*quotauc.Tracker, error) {
	week, err := cfg.Quota.Week()
	if err != nil {
		return nil, fmt.Errorf("quota week: %w", err)
	}
	loc, err := cfg.Quota.TimeLocation()
	if err != nil {
		return nil, fmt.Errorf("quota location: %w", err)
	}

	adapter := state.New(kv, metrics.StorageFailuresTotal, logger).
		WithTimeout(cfg.Storage.Timeout())

	return quotauc.NewTracker(adapter, cfg.Quota.WeeklyLimit, logger).
		WithWeek(week).
		WithLocation(loc).
		WithKeys(quotauc.KeysWithPrefix(cfg.Storage.KeyPrefix)), nil
}
