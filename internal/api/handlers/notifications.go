package handlers

import (
	"net/http"
	"strings"

	"moto-rental/internal/services"
	"moto-rental/internal/websocket"
	"moto-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	manager             *websocket.Manager
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *services.NotificationService, manager *websocket.Manager, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		manager:             manager,
		logger:              logger,
	}
}

// GetNotifications lists stored notifications, newest first, optionally for
// a single ?motorcycleId=.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.notificationService.List(c.Request.Context(), c.Query("motorcycleId"))
	if err != nil {
		respondError(c, h.logger, "Failed to retrieve notifications", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notifications retrieved successfully", notifications)
}

// HandleWebSocket upgrades the request into a live notification feed.
// ?motorcycleIds=a,b (or repeated) restricts the feed.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	filters := websocket.NotificationFilters{}
	for _, value := range c.QueryArray("motorcycleIds") {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filters.MotorcycleIDs = append(filters.MotorcycleIDs, id)
			}
		}
	}

	conn, err := h.manager.GetUpgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written the error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.NewString()
	if err := h.manager.RegisterClient(clientID, conn, filters); err != nil {
		h.logger.Warn("websocket client rejected", zap.String("client_id", clientID), zap.Error(err))
		conn.Close()
		return
	}

	h.logger.Debug("websocket client connected",
		zap.String("client_id", clientID), zap.Strings("motorcycle_ids", filters.MotorcycleIDs))
}

// GetConnectedClients reports the live feed's connection counts.
func (h *NotificationHandler) GetConnectedClients(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Connected clients retrieved successfully", gin.H{
		"connectedClients": h.manager.GetConnectedClients(),
		"stats":            h.manager.GetClientStats(),
	})
}
