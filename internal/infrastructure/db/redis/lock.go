package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

const (
	uploadLockKey = "upload:lock"
	// uploadLockTTL bounds how long a crashed upload can block the next one.
	uploadLockTTL = 2 * time.Minute
)

// UploadLock serializes uploads across instances using a Redis SETNX lock, so
// two concurrent uploads cannot interleave their delete/rebuild steps.
type UploadLock struct {
	client *redis.Client
}

// NewUploadLock creates an UploadLock wrapping the given Redis client.
func NewUploadLock(client *redis.Client) *UploadLock {
	return &UploadLock{client: client}
}

// Acquire takes the lock, failing with ErrUploadInProgress when another
// upload holds it.
func (l *UploadLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, uploadLockKey, "1", uploadLockTTL).Result()
	if err != nil {
		return fmt.Errorf("acquire upload lock: %w", err)
	}
	if !ok {
		return domain.ErrUploadInProgress
	}
	return nil
}

// Release frees the lock.
func (l *UploadLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, uploadLockKey).Err(); err != nil {
		return fmt.Errorf("release upload lock: %w", err)
	}
	return nil
}
