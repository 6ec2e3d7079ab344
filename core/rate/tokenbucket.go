package rate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KEYS[1] bucket, ARGV: capacity, tokens per second, now (ms), n
const tokenBucketLua = `
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local n = tonumber(ARGV[4])

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil then
	tokens = capacity
	ts = now
end

local elapsed = math.max(0, now - ts)
tokens = math.min(capacity, tokens + elapsed * rate / 1000)

local allowed = 0
if tokens >= n then
	tokens = tokens - n
	allowed = 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], math.ceil(capacity / rate * 1000) + 1000)
return allowed
`

var tokenBucketScript = redis.NewScript(tokenBucketLua)

// TokenBucket refills rate tokens per second up to capacity
type TokenBucket struct {
	client   redis.UniversalClient
	key      string
	capacity int
	rate     int
}

func NewTokenBucket(client redis.UniversalClient, key string, capacity, rate int) (*TokenBucket, error) {
	if capacity <= 0 || rate <= 0 {
		return nil, ErrInvalidLimit.WithMetadata(map[string]string{"key": key})
	}
	return &TokenBucket{
		client:   client,
		key:      key,
		capacity: capacity,
		rate:     rate,
	}, nil
}

func (b *TokenBucket) Allow(ctx context.Context) (bool, error) {
	return b.AllowN(ctx, time.Now(), 1)
}

func (b *TokenBucket) AllowN(ctx context.Context, t time.Time, n int) (bool, error) {
	res, err := tokenBucketScript.Run(ctx, b.client, []string{b.key}, b.capacity, b.rate, t.UnixMilli(), n).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
