package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moto-rental/internal/api/middleware"
	"moto-rental/internal/api/routes"
	"moto-rental/internal/config"
	"moto-rental/internal/pricing"
	"moto-rental/internal/repository"
	"moto-rental/internal/repository/memstore"
	"moto-rental/internal/services"
	"moto-rental/internal/websocket"
	"moto-rental/pkg/cache"
	"moto-rental/pkg/cleanup"
	"moto-rental/pkg/database"
	"moto-rental/pkg/jwt"
	"moto-rental/pkg/lock"
	"moto-rental/pkg/logger"
	"moto-rental/pkg/messaging"
	"moto-rental/pkg/ratelimit"
	"moto-rental/pkg/redis"
	"moto-rental/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type stores struct {
	motorcycles   services.MotorcycleStore
	drivers       services.DriverStore
	rentals       services.RentalStore
	notifications services.NotificationStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Disconnect(context.Background(), db.Client()); err != nil {
				log.Warn("mongo disconnect failed", zap.Error(err))
			}
		}()
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	rdb := redisClient.Redis()

	files, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("preparing upload dir: %w", err)
	}

	hub := websocket.NewManager(cfg.AllowedOrigins, log)
	if err := hub.Start(); err != nil {
		return err
	}

	var motorcycleCache *cache.RedisCache
	if cfg.Cache.Enabled {
		motorcycleCache = cache.NewRedisCache(rdb, cfg.Cache.KeyPrefix)
		st.motorcycles = cache.NewCachedMotorcycles(st.motorcycles, motorcycleCache, cfg.Cache.MotorcycleTTL, log)
	}

	publisher := messaging.NewPublisher(rdb, cfg.Events.Stream)
	motorcycleService := services.NewMotorcycleService(st.motorcycles, st.rentals, publisher, log)
	driverService := services.NewDriverService(st.drivers, files, log)
	notificationService := services.NewNotificationService(st.notifications, log)
	notificationService.SetBroadcaster(hub)

	rentalService := services.NewRentalService(st.rentals, st.motorcycles, st.drivers, pricing.DefaultTable(), log)
	if cfg.Rentals.DistributedLock {
		rentalService.SetLocker(lock.NewRedisLocker(rdb, cfg.Rentals.LockTTL, cfg.Rentals.LockWait))
	} else {
		rentalService.SetLocker(lock.NewMemoryLocker(cfg.Rentals.LockWait))
	}

	consumer := messaging.NewConsumer(rdb, messaging.ConsumerConfig{
		Stream: cfg.Events.Stream,
		Group:  cfg.Events.Group,
		Name:   cfg.Events.Consumer,
		Block:  cfg.Events.BlockInterval,
	}, log)
	if err := consumer.Subscribe(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", cfg.Events.Stream, err)
	}

	deps := routes.Dependencies{
		Motorcycles:   motorcycleService,
		Drivers:       driverService,
		Rentals:       rentalService,
		Notifications: notificationService,
		Hub:           hub,
		DB:            db,
		Redis:         redisClient,
		Cache:         motorcycleCache,
		Logger:        log,
	}
	if cfg.Auth.Enabled {
		deps.JWT = jwt.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	}
	if cfg.RateLimit.Enabled {
		deps.Limiter = ratelimit.NewRedisLimiter(rdb, "ratelimit:")
		deps.LimitPolicy = ratelimit.DefaultPolicy(cfg.RateLimit.PerMinute, cfg.RateLimit.WritePerMinute)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), cors.New(corsConfig(cfg.AllowedOrigins)))
	routes.SetupRoutes(router, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return consumer.Run(gctx, notificationService.HandleVehicleRegistered)
	})
	if cfg.Events.MaxLen > 0 {
		cleaner := cleanup.NewStreamCleaner(rdb, cfg.Events.Stream, cfg.Events.MaxLen, cfg.Events.TrimInterval, log)
		g.Go(func() error { return cleaner.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		hub.Stop()
		return err
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (stores, *mongo.Database, error) {
	if cfg.StoreBackend == config.StoreMemory {
		log.Warn("using in-memory store, data is lost on restart")
		mem := memstore.New()
		return stores{
			motorcycles:   mem.Motorcycles,
			drivers:       mem.Drivers,
			rentals:       mem.Rentals,
			notifications: mem.Notifications,
		}, nil, nil
	}

	db, err := database.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return stores{}, nil, err
	}
	return stores{
		motorcycles:   repository.NewMotorcycleRepository(db),
		drivers:       repository.NewDriverRepository(db),
		rentals:       repository.NewRentalRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}, db, nil
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version", "Sec-WebSocket-Protocol"},
		ExposeHeaders: []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	// Credentials cannot be combined with a wildcard origin.
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}
