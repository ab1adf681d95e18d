package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017/moto_rental")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreBackend)
	assert.Equal(t, "vehicle.registered", cfg.Events.Stream)
	assert.Equal(t, 30*time.Second, cfg.Rentals.LockTTL)
	assert.Equal(t, 5*time.Second, cfg.Rentals.LockWait)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Auth.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
	assert.Equal(t, 30, cfg.RateLimit.WritePerMinute)
	assert.Equal(t, int64(10000), cfg.Events.MaxLen)
	assert.Equal(t, 10*time.Minute, cfg.Events.TrimInterval)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.MotorcycleTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RENTAL_LOCK_WAIT", "750ms")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.Rentals.LockWait)
	assert.True(t, cfg.Auth.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "mongo without uri",
			cfg:     Config{StoreBackend: StoreMongo, Events: EventsConfig{Stream: "s", Group: "g"}},
			wantErr: "MONGO_URI",
		},
		{
			name:    "unknown backend",
			cfg:     Config{StoreBackend: "sqlite", Events: EventsConfig{Stream: "s", Group: "g"}},
			wantErr: "unknown STORE_BACKEND",
		},
		{
			name: "auth without secret",
			cfg: Config{
				StoreBackend: StoreMemory,
				Auth:         AuthConfig{Enabled: true},
				Events:       EventsConfig{Stream: "s", Group: "g"},
			},
			wantErr: "JWT_SECRET",
		},
		{
			name: "zero rate limit",
			cfg: Config{
				StoreBackend: StoreMemory,
				Events:       EventsConfig{Stream: "s", Group: "g"},
				RateLimit:    RateLimitConfig{Enabled: true, PerMinute: 0, WritePerMinute: 5},
			},
			wantErr: "rate limits",
		},
		{
			name: "trimming without interval",
			cfg: Config{
				StoreBackend: StoreMemory,
				Events:       EventsConfig{Stream: "s", Group: "g", MaxLen: 100},
			},
			wantErr: "EVENTS_TRIM_INTERVAL",
		},
		{
			name: "cache without ttl",
			cfg: Config{
				StoreBackend: StoreMemory,
				Events:       EventsConfig{Stream: "s", Group: "g"},
				Cache:        CacheConfig{Enabled: true},
			},
			wantErr: "CACHE_MOTORCYCLE_TTL",
		},
		{
			name: "valid memory config",
			cfg:  Config{StoreBackend: StoreMemory, Events: EventsConfig{Stream: "s", Group: "g"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
