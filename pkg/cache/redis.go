// ==============================================================================
// REDIS CONNECTION - pkg/cache/redis.go
// ==============================================================================
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client and verifies it with a ping bounded by timeout.
// It returns nil, nil when url is empty so callers can treat Redis as optional.
func Connect(ctx context.Context, url, password string, db int, timeout time.Duration) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", url, err)
	}

	return client, nil
}
