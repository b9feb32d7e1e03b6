package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-pool-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

type LoginTrackerConfig struct {
	MaxAttempts   int           // failures before a block
	AttemptWindow time.Duration // how long failures are remembered
	BlockDuration time.Duration
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per email in Redis and blocks the email
// once MaxAttempts is reached. Without Redis every check passes.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger
	client func() *goredis.Client
}

func NewLoginTracker(config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{
		config: config,
		logger: logger,
		client: redis.Client,
	}
}

const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	client := lt.client()
	if client == nil {
		return false, nil
	}

	exists, err := client.Exists(ctx, blockedLoginPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt counts one failure and reports whether the email is now blocked.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, userAgent, requestID, "invalid_credentials")

	client := lt.client()
	if client == nil {
		return false, nil
	}

	key := normalizeEmail(email)
	result, err := client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + key}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("increment login failures: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, errors.New("unexpected result type from Lua script")
	}

	if int(count) < lt.config.MaxAttempts {
		return false, nil
	}

	if err := client.Set(ctx, blockedLoginPrefix+key, "1", lt.config.BlockDuration).Err(); err != nil {
		return false, fmt.Errorf("set login block: %w", err)
	}
	lt.logger.LogBlockCreated(ctx, "email", email, ip, requestID, int(lt.config.BlockDuration.Minutes()))
	return true, nil
}

// ClearAttempts forgets the failure counter after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	client := lt.client()
	if client == nil {
		return nil
	}
	return client.Del(ctx, failLoginPrefix+normalizeEmail(email)).Err()
}
