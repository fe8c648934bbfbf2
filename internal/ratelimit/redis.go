package ratelimit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Scores are admission times in milliseconds. Entries at least one window old
// are removed before counting; a rejected call records nothing.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
	return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// Redis shares the sliding window between processes. Keys expire one window
// after the last admission.
type Redis struct {
	client goredis.Scripter
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger
	prefix string
}

func NewRedis(client goredis.Scripter, cfg Config, clk clock.Clock, logger *slog.Logger) (*Redis, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Redis{client: client, cfg: cfg, clock: clk, logger: logger, prefix: "ratelimit:"}, nil
}

// Admit fails open: if Redis is unreachable the action is allowed.
func (r *Redis) Admit(ctx context.Context, clientID string) bool {
	const op = "ratelimit.Redis.Admit"

	now := r.clock.Now().UnixMilli()
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	res, err := slidingWindow.Run(ctx, r.client,
		[]string{r.prefix + clientID},
		now, r.cfg.Window.Milliseconds(), r.cfg.Max, member,
	).Int()
	if err != nil {
		r.logger.Error("rate limit script failed, admitting",
			slog.String("op", op),
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		return true
	}
	return res == 1
}
