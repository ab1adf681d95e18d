package websocket

import (
	"time"

	"moto-rental/internal/models"

	"github.com/gorilla/websocket"
)

// NotificationFilters restricts which notifications a client receives. An
// empty filter receives everything.
type NotificationFilters struct {
	MotorcycleIDs []string `json:"motorcycleIds,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Filters  NotificationFilters
	Send     chan models.Notification
	LastPing time.Time
	IsActive bool
}

// ClientStats provides statistics about connected clients
type ClientStats struct {
	TotalClients    int `json:"totalClients"`
	ActiveClients   int `json:"activeClients"`
	InactiveClients int `json:"inactiveClients"`
}

// Message envelope exchanged with clients.
type Message struct {
	Type    string               `json:"type"`
	Data    *models.Notification `json:"data,omitempty"`
	Filters *NotificationFilters `json:"filters,omitempty"`
}

const (
	MessageTypeNotification  = "notification"
	MessageTypeUpdateFilters = "update_filters"
)
