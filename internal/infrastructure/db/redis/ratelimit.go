package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

// LoginLimiter throttles login attempts per username using a fixed window
// counter in Redis. Key format: login_attempts:<username>
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive limit or window fall back to the defaults.
func NewLoginLimiter(client *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt for username and reports whether it is within
// the window's budget.
func (l *LoginLimiter) Allow(ctx context.Context, username string) (bool, error) {
	key := l.key(username)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		// First attempt in this window starts the clock.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}

func (l *LoginLimiter) key(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}
