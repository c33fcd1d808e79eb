// Package ratelimit implements a fixed-window request limiter backed by a
// shared counter store, so limits hold across process restarts and replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Op names a rate-limited operation. Window length differs per operation
// because generation is far more expensive than search.
type Op string

const (
	OpSearch   Op = "search"
	OpGenerate Op = "generate"
)

// Window lengths per operation.
const (
	SearchWindow   = time.Minute
	GenerateWindow = 5 * time.Minute
)

// Window returns the fixed window length for the operation.
func (o Op) Window() time.Duration {
	if o == OpGenerate {
		return GenerateWindow
	}
	return SearchWindow
}

// CounterStore is the subset of store operations the limiter needs. The
// store must provide atomic increment; Redis INCR satisfies this.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

// Result describes the limiter's decision for one request.
type Result struct {
	Success   bool  `json:"success"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"` // wall-clock end of the window, Unix ms
}

// Limiter checks requests against fixed windows.
type Limiter struct {
	store  CounterStore
	logger *logger.Logger
	now    func() time.Time
}

// New creates a Limiter on top of the given counter store.
func New(store CounterStore, log *logger.Logger) *Limiter {
	return &Limiter{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Check records one request for identity/op and reports whether it is within
// maxRequests for the current window. The key embeds the window index, so a
// new window starts from a fresh counter; EXPIRE on first increment cleans
// stale windows. A non-positive window selects the op default.
func (l *Limiter) Check(ctx context.Context, identity string, op Op, maxRequests int, window time.Duration) (*Result, error) {
	if window <= 0 {
		window = op.Window()
	}
	windowMs := window.Milliseconds()
	windowIndex := l.now().UnixMilli() / windowMs

	key := fmt.Sprintf("ratelimit:%s:%s:%d", identity, op, windowIndex)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if _, err := l.store.Expire(ctx, key, window); err != nil {
			// The key still dies with the window index; stale counters are
			// only a memory concern, not a correctness one.
			l.logger.Warn("failed to set rate limit expiry",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	remaining := maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Success:   count <= int64(maxRequests),
		Limit:     maxRequests,
		Remaining: remaining,
		Reset:     (windowIndex + 1) * windowMs,
	}, nil
}
