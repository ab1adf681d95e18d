package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow increments the window counter, starting its expiry on the first
// hit, and returns the count with the remaining window in milliseconds.
var incrWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

type RedisLimiter struct {
	client redis.Scripter
	prefix string
}

// NewRedisLimiter shares counters across every instance using the same redis.
func NewRedisLimiter(client redis.Scripter, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit Limit) (Result, error) {
	values, err := incrWindow.Run(ctx, r.client, []string{r.prefix + key}, limit.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(values) != 2 {
		return Result{}, fmt.Errorf("rate limit check failed: unexpected reply %v", values)
	}
	return result(values[0], limit, time.Duration(values[1])*time.Millisecond), nil
}
