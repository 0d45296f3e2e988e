package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Result describes one Allow decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long to wait before the next request may pass.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Store counts hits per key in fixed windows.
type Store interface {
	// Increment adds one hit to key and returns the count in the current
	// window and the time left until the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
	Reset(ctx context.Context, key string) error
}

// Config is a per-scope limit: Limit hits per Window.
type Config struct {
	Limit  int           `env:"LIMIT" envDefault:"10"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Limiter applies a fixed-window limit over a Store.
type Limiter struct {
	store  Store
	prefix string
	limit  int
	window time.Duration
}

// New creates a limiter. prefix namespaces keys so several limiters can
// share one store.
func New(store Store, prefix string, cfg Config) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, fmt.Errorf("%w: limit and window must be positive", ErrInvalidConfig)
	}
	return &Limiter{store: store, prefix: prefix, limit: cfg.Limit, window: cfg.Window}, nil
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Increment(ctx, l.key(key), l.window)
	if err != nil {
		return Result{}, errors.Join(ErrStore, err)
	}
	if ttl <= 0 {
		ttl = l.window
	}

	return Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(count), 0),
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Reset(ctx, l.key(key)); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (l *Limiter) key(key string) string {
	if l.prefix == "" {
		return key
	}
	return l.prefix + ":" + key
}
