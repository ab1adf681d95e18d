package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"moto-rental/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthCheckInterval = 30 * time.Second

// Client wraps a pooled go-redis client and tracks its reachability. The
// underlying client is created once; go-redis redials broken connections on
// its own, so callers may hold on to Redis() for the process lifetime.
type Client struct {
	client      *redis.Client
	addr        string
	logger      *zap.Logger
	mu          sync.RWMutex
	isConnected bool
	lastPing    time.Time
	cancel      context.CancelFunc
	done        chan struct{}
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// Options translates the configuration into go-redis options. REDIS_URL wins
// over host and port when it parses.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	var opt *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.MaxRetries = cfg.MaxRetries
	opt.MinRetryBackoff = cfg.RetryDelay
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	opt.PoolTimeout = cfg.PoolTimeout
	return opt, nil
}

// NewClient creates the pooled client, pings it once and starts the
// background health check. An unreachable server is not an error here;
// IsConnected reports it.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Client, error) {
	opt, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		client: redis.NewClient(opt),
		addr:   opt.Addr,
		logger: logger.With(zap.String("component", "redis"), zap.String("addr", opt.Addr)),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if status := c.HealthCheck(ctx); status.IsConnected {
		c.logger.Info("redis connected", zap.Duration("response_time", status.ResponseTime))
	} else {
		c.logger.Warn("redis not reachable", zap.String("error", status.Error))
	}

	go c.healthCheckLoop(loopCtx)
	return c, nil
}

// Redis returns the underlying client.
func (c *Client) Redis() *redis.Client {
	return c.client
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// HealthCheck pings the server and records the outcome.
func (c *Client) HealthCheck(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := c.client.Ping(ctx).Err()

	status := HealthStatus{
		IsConnected:    err == nil,
		LastPing:       time.Now(),
		ResponseTime:   time.Since(start),
		ConnectionInfo: c.addr,
	}
	if err != nil {
		status.Error = err.Error()
	}

	c.mu.Lock()
	wasConnected, pinged := c.isConnected, !c.lastPing.IsZero()
	c.isConnected = status.IsConnected
	c.lastPing = status.LastPing
	c.mu.Unlock()

	if wasConnected && !status.IsConnected {
		c.logger.Warn("redis connection lost", zap.Error(err))
	} else if pinged && !wasConnected && status.IsConnected {
		c.logger.Info("redis connection restored")
	}
	return status
}

func (c *Client) healthCheckLoop(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.HealthCheck(ctx)
		}
	}
}

// GetConnectionStats returns connection pool statistics
func (c *Client) GetConnectionStats() map[string]interface{} {
	stats := c.client.PoolStats()
	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"totalConns":  stats.TotalConns,
		"idleConns":   stats.IdleConns,
		"staleConns":  stats.StaleConns,
		"isConnected": c.IsConnected(),
	}
}

// Close stops the health check and closes the pool.
func (c *Client) Close() error {
	c.cancel()
	<-c.done
	return c.client.Close()
}
