package rate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] window set, ARGV: window (ms), limit, now (ms), n, member prefix
const slidingWindowLua = `
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local n = tonumber(ARGV[4])

redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", now - window)
if redis.call("ZCARD", KEYS[1]) + n > limit then
	return 0
end

for i = 1, n do
	redis.call("ZADD", KEYS[1], now, ARGV[5] .. ":" .. i)
end
redis.call("PEXPIRE", KEYS[1], window)
return 1
`

var slidingWindowScript = redis.NewScript(slidingWindowLua)

// SlidingWindow allows at most limit units in any window
type SlidingWindow struct {
	client redis.UniversalClient
	key    string
	window time.Duration
	limit  int
}

func NewSlidingWindow(client redis.UniversalClient, key string, window time.Duration, limit int) (*SlidingWindow, error) {
	if window < time.Millisecond || limit <= 0 {
		return nil, ErrInvalidLimit.WithMetadata(map[string]string{"key": key})
	}
	return &SlidingWindow{
		client: client,
		key:    key,
		window: window,
		limit:  limit,
	}, nil
}

func (w *SlidingWindow) Allow(ctx context.Context) (bool, error) {
	return w.AllowN(ctx, time.Now(), 1)
}

func (w *SlidingWindow) AllowN(ctx context.Context, t time.Time, n int) (bool, error) {
	args := []any{w.window.Milliseconds(), w.limit, t.UnixMilli(), n, uuid.NewString()}
	res, err := slidingWindowScript.Run(ctx, w.client, []string{w.key}, args...).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
