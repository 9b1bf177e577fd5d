// Package locker provides distributed locking for coordinating work across service instances.
package locker

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when another holder owns the lock.
var ErrNotAcquired = errors.New("lock held by another instance")

// Locker hands out expiring leases on named locks.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	lease, err := l.TryAcquire(ctx, "reindex:lock", 5*time.Minute)
//	if errors.Is(err, locker.ErrNotAcquired) {
//	    return nil // someone else is doing the work
//	}
//	if err != nil {
//	    return err
//	}
//	defer lease.Release(context.WithoutCancel(ctx))
type Locker interface {
	// TryAcquire takes the lock without waiting. The lease expires after ttl
	// if it is never released.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock.
type Lease interface {
	Key() string

	// Release gives the lock up. Releasing an expired or stolen lease is not an error.
	Release(ctx context.Context) error
}
