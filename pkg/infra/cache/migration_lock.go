package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const migrationLockKeyPattern = "migration:lock:%s"

// MigrationLock serializes migration sweeps per tenant across instances.
// At most one active sweep per tenant at a time; the lock expires on its own
// if a holder dies mid-sweep.
type MigrationLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMigrationLock(c *Cache, ttl time.Duration) *MigrationLock {
	return &MigrationLock{client: c.Client(), ttl: ttl}
}

// Acquire returns true when this instance now holds the tenant's sweep lock.
func (l *MigrationLock) Acquire(ctx context.Context, tenantID string) (bool, error) {
	key := fmt.Sprintf(migrationLockKeyPattern, tenantID)
	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	return ok, nil
}

// Refresh extends the lock while a sweep is still making progress.
func (l *MigrationLock) Refresh(ctx context.Context, tenantID string) error {
	key := fmt.Sprintf(migrationLockKeyPattern, tenantID)
	return l.client.Expire(ctx, key, l.ttl).Err()
}

func (l *MigrationLock) Release(ctx context.Context, tenantID string) error {
	key := fmt.Sprintf(migrationLockKeyPattern, tenantID)
	return l.client.Del(ctx, key).Err()
}
