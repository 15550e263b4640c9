package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one login attempt check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// LoginLimiter counts login attempts per email in a Redis sorted set, scored
// by attempt time, and refuses further attempts once the window is full.
type LoginLimiter struct {
	client *redis.Client
	cfg    config.RateConfig
	now    func() time.Time
}

func NewLoginLimiter(client *redis.Client, cfg config.RateConfig) *LoginLimiter {
	return &LoginLimiter{client: client, cfg: cfg, now: time.Now}
}

// WithClock replaces the time source.
func (l *LoginLimiter) WithClock(now func() time.Time) *LoginLimiter {
	l.now = now

	return l
}

func (l *LoginLimiter) Allow(ctx context.Context, email string) (Decision, error) {
	key := cache.Key(cache.LoginAttemptsKeyPrefix, email)

	at := l.now()
	now := at.Unix()

	// only attempts after windowStart are counted
	windowStart := now - int64(l.cfg.WindowSize.Seconds())

	// score is the attempt second, member the nanosecond so attempts within
	// the same second stay distinct
	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(at.UnixNano(), 10)})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to record login attempt: %w", err)
	}

	attempts := count.Val()

	if attempts > l.cfg.MaxAttempts {
		oldest, err := l.client.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("failed to read oldest attempt: %w", err)
		}

		retryAfter := l.cfg.WindowSize
		if len(oldest) > 0 {
			retryAfter = time.Duration(int64(oldest[0].Score)+int64(l.cfg.WindowSize.Seconds())-now) * time.Second
		}

		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Decision{Allowed: true, Remaining: int(l.cfg.MaxAttempts - attempts)}, nil
}

// Reset forgets the attempts for email, used after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, cache.Key(cache.LoginAttemptsKeyPrefix, email)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}

	return nil
}
