package routes

import (
	"moto-rental/internal/api/handlers"
	"moto-rental/internal/api/middleware"
	"moto-rental/internal/services"
	"moto-rental/internal/websocket"
	"moto-rental/pkg/cache"
	"moto-rental/pkg/jwt"
	"moto-rental/pkg/ratelimit"
	"moto-rental/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Dependencies carries everything the HTTP layer needs. JWT and Limiter are
// optional: a nil JWT leaves admin routes open, a nil Limiter disables rate
// limiting. DB is nil with the in-memory store and Cache is nil when
// motorcycle caching is off.
type Dependencies struct {
	Motorcycles   *services.MotorcycleService
	Drivers       *services.DriverService
	Rentals       *services.RentalService
	Notifications *services.NotificationService
	Hub           *websocket.Manager

	DB    *mongo.Database
	Redis *redis.Client
	Cache *cache.RedisCache

	JWT         *jwt.JWTUtil
	Limiter     ratelimit.Limiter
	LimitPolicy ratelimit.Policy

	Logger *zap.Logger
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	motorcycleHandler := handlers.NewMotorcycleHandler(deps.Motorcycles, deps.Logger)
	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Logger)
	rentalHandler := handlers.NewRentalHandler(deps.Rentals, deps.Logger)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications, deps.Hub, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)
	if deps.Cache != nil {
		healthHandler.SetCacheStats(deps.Cache.Stats)
	}

	api := router.Group("/api/v1")
	if deps.Limiter != nil {
		api.Use(middleware.RateLimitMiddleware(deps.Limiter, deps.LimitPolicy, deps.Logger))
	}

	api.GET("/health", healthHandler.HealthCheck)

	admin := api.Group("")
	if deps.JWT != nil {
		admin.Use(middleware.AuthMiddleware(deps.JWT, jwt.RoleAdmin))
	}

	// Motorcycles
	api.GET("/motorcycles", motorcycleHandler.GetMotorcycles)
	api.GET("/motorcycles/:id", motorcycleHandler.GetMotorcycle)
	admin.POST("/motorcycles", motorcycleHandler.CreateMotorcycle)
	admin.PUT("/motorcycles/:id/license-plate", motorcycleHandler.UpdateLicensePlate)
	admin.DELETE("/motorcycles/:id", motorcycleHandler.DeleteMotorcycle)

	// Delivery drivers
	drivers := api.Group("/drivers")
	{
		drivers.POST("", driverHandler.CreateDriver)
		drivers.GET("", driverHandler.GetDrivers)
		drivers.GET("/:id", driverHandler.GetDriver)
		drivers.POST("/:id/license-image", driverHandler.UploadLicenseImage)
	}

	// Rentals
	rentals := api.Group("/rentals")
	{
		rentals.GET("/plans", rentalHandler.GetPlans)
		rentals.POST("", rentalHandler.CreateRental)
		rentals.GET("", rentalHandler.GetRentals)
		rentals.GET("/:id", rentalHandler.GetRental)
		rentals.POST("/:id/quote", rentalHandler.QuoteReturn)
		rentals.POST("/:id/return", rentalHandler.ReturnRental)
	}

	// Notifications
	admin.GET("/notifications", notificationHandler.GetNotifications)
	admin.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	admin.GET("/notifications/ws/clients", notificationHandler.GetConnectedClients)
}
