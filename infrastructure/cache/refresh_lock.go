package cache

import (
	"context"
	"fmt"
	"time"

	"channel-portfolio/infrastructure/configuration"

	"github.com/redis/go-redis/v9"
)

const refreshLockKey = "catalog:refresh-lock"

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient() *redis.Client {
	cfg := configuration.C.RedisClient
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
	})
}

// RefreshLock is a best-effort cross-process mutex backed by Redis SET NX.
// The TTL bounds how long a crashed holder can block other processes.
type RefreshLock struct {
	client *redis.Client
	key    string
}

func NewRefreshLock(client *redis.Client) *RefreshLock {
	return &RefreshLock{client: client, key: refreshLockKey}
}

// TryLock attempts to acquire the lock. It returns false when another
// process already holds it.
func (l *RefreshLock) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key, "1", ttl).Result()
}

// Unlock releases the lock. Releasing a lock that already expired is a no-op.
func (l *RefreshLock) Unlock(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}
