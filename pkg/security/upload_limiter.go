package security

import (
	"context"
	"fmt"
	"time"

	"talent-pool-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps uploads per user with a Redis sliding window.
type UploadLimiter struct {
	maxPerHour int
	client     func() *goredis.Client
}

// KEYS[1] = window key
// ARGV[1] = limit, ARGV[2] = window seconds, ARGV[3] = now
// Returns 1 when allowed.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

func NewUploadLimiter(perHour int) *UploadLimiter {
	if perHour <= 0 {
		perHour = 20
	}
	return &UploadLimiter{maxPerHour: perHour, client: redis.Client}
}

// Allow reports whether userID may upload another file. Without Redis uploads
// are always allowed.
func (ul *UploadLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	client := ul.client()
	if client == nil {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:upload:user:%s", userID)
	result, err := client.Eval(ctx, uploadRateLimitScript, []string{key}, ul.maxPerHour, int(time.Hour.Seconds()), time.Now().Unix()).Result()
	if err != nil {
		return true, fmt.Errorf("upload limit check: %w", err)
	}
	allowed, ok := result.(int64)
	if !ok {
		return true, fmt.Errorf("unexpected result type from upload limit script")
	}
	return allowed == 1, nil
}
