package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements Locker with the Redlock algorithm via redsync.
type RedisLocker struct {
	rs     *redsync.Redsync
	logger *zap.Logger
}

// NewRedisLocker creates a Redis-backed locker.
func NewRedisLocker(client redis.UniversalClient, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		logger: logger,
	}
}

// TryAcquire makes a single, non-blocking attempt to take the lock.
// Returns ErrNotAcquired when the lock is already held.
func (r *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	mutex := r.rs.NewMutex(
		key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		// Contention surfaces as ErrFailed or as an ErrTaken wrapped
		// in a "lock already taken" message depending on the node state.
		if errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken") {
			r.logger.Debug("lock already held by another instance", zap.String("key", key))
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	r.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return &redisLease{key: key, mutex: mutex, logger: r.logger}, nil
}

type redisLease struct {
	key    string
	mutex  *redsync.Mutex
	logger *zap.Logger
}

func (l *redisLease) Key() string {
	return l.key
}

func (l *redisLease) Release(ctx context.Context) error {
	ok, err := l.mutex.UnlockContext(ctx)
	if err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrLockAlreadyExpired) || errors.As(err, &taken) {
			l.logger.Debug("lock expired before release", zap.String("key", l.key))
			return nil
		}

		return fmt.Errorf("release lock %s: %w", l.key, err)
	}

	if ok {
		l.logger.Debug("lock released", zap.String("key", l.key))
	} else {
		l.logger.Debug("lock not owned anymore", zap.String("key", l.key))
	}

	return nil
}
