package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moto-rental/internal/config"
	"moto-rental/internal/pricing"
	"moto-rental/internal/repository/memstore"
	"moto-rental/internal/services"
	"moto-rental/internal/websocket"
	"moto-rental/pkg/cache"
	"moto-rental/pkg/jwt"
	"moto-rental/pkg/messaging"
	"moto-rental/pkg/ratelimit"
	"moto-rental/pkg/redis"
	"moto-rental/pkg/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, withAuth bool) (*gin.Engine, *jwt.JWTUtil, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient, err := redis.NewClient(context.Background(), config.RedisConfig{
		Host: mr.Host(), Port: mr.Port(), PoolSize: 5,
		DialTimeout: time.Second, ReadTimeout: time.Second, WriteTimeout: time.Second, PoolTimeout: time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	store := memstore.New()
	motorcycleCache := cache.NewRedisCache(redisClient.Redis(), "test:")
	motorcycles := cache.NewCachedMotorcycles(store.Motorcycles, motorcycleCache, time.Minute, logger)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	deps := Dependencies{
		Motorcycles: services.NewMotorcycleService(motorcycles, store.Rentals,
			messaging.NewPublisher(redisClient.Redis(), "vehicle.registered"), logger),
		Drivers:       services.NewDriverService(store.Drivers, files, logger),
		Rentals:       services.NewRentalService(store.Rentals, motorcycles, store.Drivers, pricing.DefaultTable(), logger),
		Notifications: services.NewNotificationService(store.Notifications, logger),
		Hub:           websocket.NewManager(nil, logger),
		Redis:         redisClient,
		Cache:         motorcycleCache,
		Limiter:       ratelimit.NewRedisLimiter(redisClient.Redis(), "test:"),
		LimitPolicy:   ratelimit.DefaultPolicy(100, 2),
		Logger:        logger,
	}

	var util *jwt.JWTUtil
	if withAuth {
		util = jwt.NewJWTUtil("test-secret", time.Hour)
		deps.JWT = util
	}

	router := gin.New()
	SetupRoutes(router, deps)
	return router, util, mr
}

func request(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const motorcycleBody = `{"identifier":"MOTO001","year":2024,"model":"Honda CG 160","licensePlate":"ABC1D23"}`

func TestAdminRoutesRequireToken(t *testing.T) {
	router, util, mr := newTestRouter(t, true)

	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodPost, "/api/v1/motorcycles", motorcycleBody, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/v1/notifications", "", "").Code)

	// Public routes stay open.
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/v1/motorcycles", "", "").Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/v1/rentals/plans", "", "").Code)

	token, err := util.GenerateToken("ops", jwt.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, request(router, http.MethodPost, "/api/v1/motorcycles", motorcycleBody, token).Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/v1/notifications", "", token).Code)

	// The registration went out on the stream.
	entries, err := mr.Stream("vehicle.registered")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdminRoutesOpenWithoutAuth(t *testing.T) {
	router, _, _ := newTestRouter(t, false)

	assert.Equal(t, http.StatusCreated, request(router, http.MethodPost, "/api/v1/motorcycles", motorcycleBody, "").Code)
}

func TestHealthRoute(t *testing.T) {
	router, _, mr := newTestRouter(t, false)

	healthy := request(router, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, healthy.Code)
	assert.Contains(t, healthy.Body.String(), `"hitRate"`)

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, request(router, http.MethodGet, "/api/v1/health", "", "").Code)
}

func TestWriteRoutesAreRateLimited(t *testing.T) {
	router, _, _ := newTestRouter(t, false)
	body := `{"identifier":"d","name":"n","cnpj":"1","birthDate":"1990-01-01","licenseNumber":"1","licenseType":"A"}`

	assert.Equal(t, http.StatusCreated, request(router, http.MethodPost, "/api/v1/drivers", body, "").Code)
	assert.Equal(t, http.StatusConflict, request(router, http.MethodPost, "/api/v1/drivers", body, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(router, http.MethodPost, "/api/v1/drivers", body, "").Code)
}
