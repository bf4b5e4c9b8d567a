package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cscx/riskwatch/internal/application"
	apperrors "github.com/cscx/riskwatch/pkg/errors"
)

// ViewCache stores JSON snapshots of the derived portfolio views under a
// short TTL. A missing key is a miss, not an error.
type ViewCache struct {
	client *redis.Client
}

// NewViewCache creates a ViewCache over an established client.
func NewViewCache(client *redis.Client) application.ViewCache {
	return &ViewCache{client: client}
}

func (c *ViewCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.ErrStorage("read view snapshot", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, apperrors.ErrStorage("decode view snapshot", err)
	}
	return true, nil
}

func (c *ViewCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return apperrors.ErrStorage("encode view snapshot", err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return apperrors.ErrStorage("write view snapshot", err)
	}
	return nil
}

func (c *ViewCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.ErrStorage("drop view snapshots", err)
	}
	return nil
}
