package routing

import (
	"context"
	"fmt"
	"time"

	"leadrouter/pkg/logger"
	"leadrouter/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockWait  = 3 * time.Second
	defaultLockRetry = 25 * time.Millisecond
)

// RedisLocker serializes routing per tenant across API replicas.
// TTL must exceed the slowest expected routing call; Wait bounds how long a
// caller queues behind another routing call of the same tenant.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Wait   time.Duration
	Retry  time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{Client: rdb, TTL: ttl, Wait: wait, Retry: defaultLockRetry}
}

func (l *RedisLocker) Lock(ctx context.Context, tenantID int64) (func(), error) {
	ttl, wait, retry := l.TTL, l.Wait, l.Retry
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	if retry <= 0 {
		retry = defaultLockRetry
	}

	key := tenantLockKey(tenantID)
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	for {
		ok, err := utils.TryLock(waitCtx, l.Client, key, token, ttl)
		if err == nil && ok {
			return l.unlockFunc(ctx, key, token), nil
		}
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("routing: tenant lock: %w", err)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-time.After(retry):
		}
	}
}

func (l *RedisLocker) unlockFunc(ctx context.Context, key, token string) func() {
	return func() {
		// Release even if the request context is already canceled.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if _, err := utils.Unlock(rctx, l.Client, key, token); err != nil {
			logger.From(ctx).Warn("tenant routing lock release failed", "key", key, "err", err)
		}
	}
}

func tenantLockKey(tenantID int64) string {
	return fmt.Sprintf("leadrouter:route-lock:tenant:%d", tenantID)
}
