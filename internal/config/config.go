package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	StoreBackend   string   `env:"STORE_BACKEND" envDefault:"mongo"`
	MongoURI       string   `env:"MONGO_URI"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"uploads"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Auth      AuthConfig
	Redis     RedisConfig
	Events    EventsConfig
	Rentals   RentalConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

type AuthConfig struct {
	Enabled   bool          `env:"AUTH_ENABLED" envDefault:"false"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
}

// RedisConfig holds connection settings for the redis wrapper in pkg/redis.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	Host         string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port         string        `env:"REDIS_PORT" envDefault:"6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	RetryDelay   time.Duration `env:"REDIS_RETRY_DELAY" envDefault:"100ms"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	PoolTimeout  time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
}

// EventsConfig names the stream and consumer group used for vehicle registration events.
type EventsConfig struct {
	Stream        string        `env:"EVENTS_STREAM" envDefault:"vehicle.registered"`
	Group         string        `env:"EVENTS_GROUP" envDefault:"motorcycle-notifications"`
	Consumer      string        `env:"EVENTS_CONSUMER" envDefault:"moto-rental"`
	BlockInterval time.Duration `env:"EVENTS_BLOCK_INTERVAL" envDefault:"2s"`
	// MaxLen caps the stream length; zero disables trimming.
	MaxLen        int64         `env:"EVENTS_STREAM_MAX_LEN" envDefault:"10000"`
	TrimInterval  time.Duration `env:"EVENTS_TRIM_INTERVAL" envDefault:"10m"`
}

type RentalConfig struct {
	LockTTL  time.Duration `env:"RENTAL_LOCK_TTL" envDefault:"30s"`
	LockWait time.Duration `env:"RENTAL_LOCK_WAIT" envDefault:"5s"`
	// DistributedLock switches the per-driver lock from in-process to redis.
	DistributedLock bool `env:"RENTAL_DISTRIBUTED_LOCK" envDefault:"true"`
}

type RateLimitConfig struct {
	Enabled        bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	PerMinute      int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	WritePerMinute int  `env:"RATE_LIMIT_WRITE_PER_MINUTE" envDefault:"30"`
}

type CacheConfig struct {
	Enabled       bool          `env:"CACHE_ENABLED" envDefault:"true"`
	MotorcycleTTL time.Duration `env:"CACHE_MOTORCYCLE_TTL" envDefault:"5m"`
	KeyPrefix     string        `env:"CACHE_KEY_PREFIX" envDefault:"moto:"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI environment variable is not set")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when AUTH_ENABLED is true")
	}
	if c.Events.Stream == "" || c.Events.Group == "" {
		return errors.New("EVENTS_STREAM and EVENTS_GROUP must not be empty")
	}
	if c.Events.MaxLen < 0 {
		return errors.New("EVENTS_STREAM_MAX_LEN must not be negative")
	}
	if c.Events.MaxLen > 0 && c.Events.TrimInterval <= 0 {
		return errors.New("EVENTS_TRIM_INTERVAL must be positive when trimming is enabled")
	}
	if c.Cache.Enabled && c.Cache.MotorcycleTTL <= 0 {
		return errors.New("CACHE_MOTORCYCLE_TTL must be positive when CACHE_ENABLED is true")
	}
	if c.RateLimit.Enabled && (c.RateLimit.PerMinute <= 0 || c.RateLimit.WritePerMinute <= 0) {
		return errors.New("rate limits must be positive when RATE_LIMIT_ENABLED is true")
	}
	return nil
}
