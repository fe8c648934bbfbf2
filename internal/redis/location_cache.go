package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sea/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const liveLocationKey = "tracking:latest"

// LiveLocationCache keeps the newest tracking point so that
// GET /get_live_location does not hit the database on every poll.
type LiveLocationCache struct {
	client goredis.Cmdable
	key    string
	ttl    time.Duration
}

func NewLiveLocationCache(client goredis.Cmdable, ttl time.Duration) *LiveLocationCache {
	return &LiveLocationCache{
		client: client,
		key:    liveLocationKey,
		ttl:    ttl,
	}
}

// GetLatest returns nil, nil on a cache miss.
func (c *LiveLocationCache) GetLatest(ctx context.Context) (*domain.TrackingPoint, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var p domain.TrackingPoint
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (c *LiveLocationCache) SetLatest(ctx context.Context, p *domain.TrackingPoint) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, c.ttl).Err()
}
