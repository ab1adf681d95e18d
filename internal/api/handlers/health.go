package handlers

import (
	"context"
	"net/http"
	"time"

	"moto-rental/pkg/cache"
	"moto-rental/pkg/database"
	"moto-rental/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports the reachability of the backing services. db is nil
// when the in-memory store is in use.
type HealthHandler struct {
	db          *mongo.Database
	redisClient *redis.Client
	cacheStats  func() cache.CacheStats
	now         func() time.Time
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

func NewHealthHandler(db *mongo.Database, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// SetCacheStats adds motorcycle cache hit rates to the report.
func (h *HealthHandler) SetCacheStats(stats func() cache.CacheStats) {
	h.cacheStats = stats
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Timestamp: h.now().UTC(),
		Services:  make(map[string]interface{}),
	}

	storeStatus := h.checkStore(c.Request.Context())
	redisStatus := h.checkRedis(c.Request.Context())
	response.Services["store"] = storeStatus
	response.Services["redis"] = redisStatus
	if h.cacheStats != nil {
		response.Services["cache"] = h.cacheStats()
	}

	if storeStatus["healthy"].(bool) && redisStatus["healthy"].(bool) {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
		return
	}
	response.Status = "unhealthy"
	c.JSON(http.StatusServiceUnavailable, response)
}

func (h *HealthHandler) checkStore(ctx context.Context) map[string]interface{} {
	if h.db == nil {
		return map[string]interface{}{"service": "memory", "healthy": true}
	}

	status := map[string]interface{}{"service": "mongodb", "healthy": false}
	if err := database.Health(ctx, h.db); err != nil {
		status["error"] = err.Error()
	} else {
		status["healthy"] = true
	}
	return status
}

func (h *HealthHandler) checkRedis(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"service": "redis",
		"healthy": false,
	}
	if h.redisClient == nil {
		status["error"] = "Redis client not initialized"
		return status
	}

	healthStatus := h.redisClient.HealthCheck(ctx)
	status["healthy"] = healthStatus.IsConnected
	status["connectionInfo"] = healthStatus.ConnectionInfo
	status["responseTime"] = healthStatus.ResponseTime.String()
	status["lastPing"] = healthStatus.LastPing
	status["connectionStats"] = h.redisClient.GetConnectionStats()
	if healthStatus.Error != "" {
		status["error"] = healthStatus.Error
	}
	return status
}
