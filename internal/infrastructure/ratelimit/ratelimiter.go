// Package ratelimit provides the attempt-window abuse guard used in front
// of authentication actions and, with wider thresholds, the rest of the
// API. Limiting is advisory per backing store: the in-memory limiter is
// process-local, the Redis limiter is shared across instances.
package ratelimit

import (
	"context"
	"time"
)

type RateLimiter interface {
	// IsLimited reports whether the identifier has an unexpired window
	// with attempts at or above the maximum.
	IsLimited(ctx context.Context, identifier string) (bool, error)
	// RecordAttempt starts a fresh window when none exists or the old one
	// expired, otherwise increments attempts in place.
	RecordAttempt(ctx context.Context, identifier string) error
	// RemainingTime returns the time until the identifier's window
	// resets, zero when there is none.
	RemainingTime(ctx context.Context, identifier string) (time.Duration, error)
	Reset(ctx context.Context, identifier string) error
}
