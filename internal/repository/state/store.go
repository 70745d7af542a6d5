// Package state is the persistence adapter of the quota: string get/set over
// a KV backend where no failure ever reaches the caller.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mealmate/internal/db"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 2 * time.Second

// store is the consumer interface for the KV backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store wraps a KV backend. Reads report absence instead of errors, writes
// report success as a bool; failures are logged and counted.
type Store struct {
	store    store
	timeout  time.Duration
	failures *prometheus.CounterVec
	logger   *zap.Logger
}

// New creates a Store. failures may be nil.
func New(s store, failures *prometheus.CounterVec, logger *zap.Logger) *Store {
	return &Store{
		store:    s,
		timeout:  DefaultTimeout,
		failures: failures,
		logger:   logger,
	}
}

// WithTimeout overrides the per-call timeout.
func (s *Store) WithTimeout(d time.Duration) *Store {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Get returns the value at key, or false if it is missing or unreadable.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.fail("get", key, err)
		}
		return "", false
	}
	return string(data), true
}

// Set writes value at key and reports whether the write succeeded.
// A failed write is dropped.
func (s *Store) Set(ctx context.Context, key, value string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Set(ctx, key, []byte(value)); err != nil {
		s.fail("set", key, err)
		return false
	}
	return true
}

func (s *Store) fail(op, key string, err error) {
	s.logger.Warn("Storage "+op+" failed", zap.String("key", key), zap.Error(err))
	if s.failures != nil {
		s.failures.WithLabelValues(op).Inc()
	}
}
