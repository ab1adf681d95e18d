package ratelimit

import (
	"context"
	"time"
)

// Limit allows Requests per Window for one client on one route.
type Limit struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
}

// Result describes the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit Limit) (Result, error)
}

// Policy picks the limit for a route. Routes are keyed by "METHOD:template"
// where template is the registered gin path, e.g. "POST:/api/v1/rentals".
type Policy struct {
	Default Limit
	Routes  map[string]Limit
}

// DefaultPolicy allows perMinute requests everywhere and writePerMinute on
// the routes that create records or settle rentals.
func DefaultPolicy(perMinute, writePerMinute int) Policy {
	write := Limit{Requests: writePerMinute, Window: time.Minute}
	return Policy{
		Default: Limit{Requests: perMinute, Window: time.Minute},
		Routes: map[string]Limit{
			"POST:/api/v1/motorcycles":               write,
			"POST:/api/v1/drivers":                   write,
			"POST:/api/v1/drivers/:id/license-image": write,
			"POST:/api/v1/rentals":                   write,
			"POST:/api/v1/rentals/:id/return":        write,
		},
	}
}

func (p Policy) LimitFor(method, route string) Limit {
	if limit, ok := p.Routes[method+":"+route]; ok {
		return limit
	}
	return p.Default
}

func result(count int64, limit Limit, ttl time.Duration) Result {
	remaining := limit.Requests - int(count)
	if remaining >= 0 {
		return Result{Allowed: true, Remaining: remaining}
	}
	if ttl <= 0 {
		ttl = limit.Window
	}
	return Result{Allowed: false, RetryAfter: ttl}
}
