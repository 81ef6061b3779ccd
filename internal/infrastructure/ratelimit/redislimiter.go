package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// attemptScript increments the attempt counter and arms the window TTL on
// the first attempt, so the whole record-attempt step is one round trip.
var attemptScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter shares attempt windows across instances through Redis,
// keeping the same window semantics as the in-memory limiter.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "sobrio:ratelimit:"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		max:    max,
		window: window,
	}
}

func (l *RedisLimiter) IsLimited(ctx context.Context, identifier string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(identifier)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read attempt counter: %w", err)
	}
	return count >= l.max, nil
}

func (l *RedisLimiter) RecordAttempt(ctx context.Context, identifier string) error {
	if err := attemptScript.Run(ctx, l.client, []string{l.key(identifier)}, l.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

func (l *RedisLimiter) RemainingTime(ctx context.Context, identifier string) (time.Duration, error) {
	ttl, err := l.client.PTTL(ctx, l.key(identifier)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read window ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.client.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("failed to reset attempt counter: %w", err)
	}
	return nil
}

func (l *RedisLimiter) key(identifier string) string {
	return l.prefix + identifier
}
