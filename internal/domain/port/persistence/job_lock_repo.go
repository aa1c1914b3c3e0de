package persistence

import (
	"context"
	"time"
)

// JobLockRepository provides named, expiring locks shared across processes
type JobLockRepository interface {
	// AcquireLock takes the named lock for duration, replacing an expired holder
	//
	// Possible errors:
	// - ErrJobLocked: If the lock is held and not expired
	// - ErrDatabaseConnection: If database connection fails
	AcquireLock(ctx context.Context, name string, duration time.Duration) error

	// ReleaseLock drops the named lock; releasing a missing lock is not an error
	ReleaseLock(ctx context.Context, name string) error
}
