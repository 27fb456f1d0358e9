package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter guards the login endpoint. Counters live in redis so the
// lockout holds across processes.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	Reset(ctx context.Context, key string) error
}

type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewLoginLimiter(rdb *redis.Client) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxAttempts: 5,
		window:      15 * time.Minute,
	}
}

// Allow counts one attempt for key and reports whether it is still within
// the limit. When blocked, the returned duration is the time until the
// counter expires.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("login_attempts:%s", key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > l.maxAttempts {
		ttl, err := l.rdb.TTL(ctx, redisKey).Result()
		if err != nil {
			ttl = l.window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, fmt.Sprintf("login_attempts:%s", key)).Err()
}
