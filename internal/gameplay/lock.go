package gameplay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockWait  = 3 * time.Second
	lockRetryBackoff = 25 * time.Millisecond
)

// Only delete the lock if we still own it.
var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisLocker is a SETNX lease lock. Holders that outlive TTL lose the lock,
// so database constraints remain the final guard.
type RedisLocker struct {
	redis  *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger zerolog.Logger
}

// NewRedisLocker creates a locker backed by Redis.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, logger zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &RedisLocker{
		redis:  client,
		ttl:    ttl,
		wait:   wait,
		logger: logger.With().Str("component", "gameplay_locker").Logger(),
	}
}

// Lock acquires key, retrying until the wait budget or ctx runs out.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "gameplay:lock:" + key
	lockValue := uuid.New().String()
	deadline := time.Now().Add(l.wait)

	for {
		acquired, err := l.redis.SetNX(ctx, lockKey, lockValue, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryBackoff):
		}
	}

	unlock := func() {
		// Release with a fresh context so a cancelled request still frees the lock.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, l.redis, []string{lockKey}, lockValue).Err(); err != nil {
			l.logger.Warn().Err(err).Str("key", lockKey).Msg("release lock failed")
		}
	}
	return unlock, nil
}
