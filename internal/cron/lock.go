package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// defaultLockTTL outlives the daily sweep interval so a worker that dies
// mid-cycle can never wedge the schedule for more than one extra day.
const defaultLockTTL = 25 * time.Hour

const workerLockPrefix = "ws:cron-worker:lock"

// LockKey names the Redis key a worker must own before running a sweep cycle.
type LockKey string

// WorkerLockKey scopes the sweep lock to a deployment environment so staging
// and production workers sharing a Redis never contend for the same key.
func WorkerLockKey(env string) LockKey {
	if env == "" {
		env = "local"
	}
	return LockKey(fmt.Sprintf("%s:%s", workerLockPrefix, env))
}

// Lock ensures only one worker instance runs the maintenance sweep at a time.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// redisStore defines the operations used by RedisLock.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock implements Lock using Redis SETNX + TTL. The value stored under
// the key is a random owner token, so release only removes a lock this
// instance still holds.
type RedisLock struct {
	client redisStore
	key    LockKey
	ttl    time.Duration
	owner  string
}

// NewRedisLock constructs a Redis-backed sweep lock for the given key.
func NewRedisLock(client redisStore, key LockKey, ttl time.Duration) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{client: client, key: key, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, string(l.key), owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if the owner token still matches; a lock that
// expired and was re-acquired by another worker is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	value, err := l.client.Get(ctx, string(l.key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		return nil
	}
	if err := l.client.Del(ctx, string(l.key)); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
