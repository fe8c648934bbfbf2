package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"

	"github.com/redis/go-redis/v9"
)

const AlertEventsKey = "alerts:events"

type AlertEventQueue struct {
	client redis.Cmdable
	key    string
}

func NewAlertEventQueue(client redis.Cmdable, key string) *AlertEventQueue {
	if key == "" {
		key = AlertEventsKey
	}
	return &AlertEventQueue{client: client, key: key}
}

func (q *AlertEventQueue) Enqueue(ctx context.Context, ev domain.AlertEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

// BRPop blocks up to timeout and returns e.ErrQueueEmpty when nothing arrived.
func (q *AlertEventQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.AlertEvent, error) {
	var ev domain.AlertEvent

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ev, e.ErrQueueEmpty
		}
		return ev, err
	}
	if len(res) < 2 {
		return ev, e.ErrQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return ev, err
	}
	return ev, nil
}

func (q *AlertEventQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
