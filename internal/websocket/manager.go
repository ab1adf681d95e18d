package websocket

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"moto-rental/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval   = 54 * time.Second
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	clientTimeout  = 90 * time.Second
	sendBufferSize = 64
)

var ErrManagerStopped = errors.New("websocket manager stopped")

// Manager fans stored notifications out to connected websocket clients.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.Notification
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger
}

func NewManager(allowedOrigins []string, logger *zap.Logger) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.Notification, 256),
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done:   make(chan struct{}),
		logger: logger.With(zap.String("component", "websocket_manager")),
	}
}

// originChecker allows requests without an Origin header, any origin when the
// list holds "*", and otherwise only the listed origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// Start begins the manager's main loop
func (m *Manager) Start() error {
	go m.run()
	m.logger.Info("websocket manager started")
	return nil
}

// Stop closes every client connection and ends the main loop.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() {
		close(m.done)

		m.mutex.Lock()
		for id := range m.clients {
			m.removeLocked(id)
		}
		m.mutex.Unlock()

		m.logger.Info("websocket manager stopped")
	})
	return nil
}

func (m *Manager) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
			m.logger.Debug("client registered", zap.String("client_id", client.ID))
			go m.handleClient(client)

		case client := <-m.unregister:
			m.mutex.Lock()
			m.removeLocked(client.ID)
			m.mutex.Unlock()
			m.logger.Debug("client unregistered", zap.String("client_id", client.ID))

		case notification := <-m.broadcast:
			m.broadcastToClients(notification)

		case <-ticker.C:
			m.healthCheck()

		case <-m.done:
			return
		}
	}
}

// RegisterClient hands an upgraded connection to the manager.
func (m *Manager) RegisterClient(clientID string, conn *websocket.Conn, filters NotificationFilters) error {
	client := &Client{
		ID:       clientID,
		Conn:     conn,
		Filters:  filters,
		Send:     make(chan models.Notification, sendBufferSize),
		LastPing: time.Now(),
		IsActive: true,
	}

	select {
	case <-m.done:
		return ErrManagerStopped
	default:
	}

	select {
	case m.register <- client:
		return nil
	case <-m.done:
		return ErrManagerStopped
	}
}

func (m *Manager) UnregisterClient(clientID string) error {
	m.mutex.RLock()
	client, exists := m.clients[clientID]
	m.mutex.RUnlock()

	if !exists {
		return nil
	}
	select {
	case m.unregister <- client:
	case <-m.done:
	}
	return nil
}

// BroadcastNotification queues a notification for delivery. It never blocks;
// when the queue is full the notification is dropped and an error returned.
func (m *Manager) BroadcastNotification(notification models.Notification) error {
	select {
	case m.broadcast <- notification:
		return nil
	default:
		return fmt.Errorf("broadcast queue full, dropping notification %s", notification.ID)
	}
}

func (m *Manager) GetConnectedClients() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (m *Manager) GetClientStats() ClientStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := ClientStats{TotalClients: len(m.clients)}
	for _, client := range m.clients {
		if client.IsActive {
			stats.ActiveClients++
		} else {
			stats.InactiveClients++
		}
	}
	return stats
}

// GetUpgrader returns the WebSocket upgrader for external use
func (m *Manager) GetUpgrader() *websocket.Upgrader {
	return &m.upgrader
}

func (m *Manager) broadcastToClients(notification models.Notification) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, client := range m.clients {
		if !shouldSendToClient(client.Filters, notification) {
			continue
		}
		select {
		case client.Send <- notification:
			client.IsActive = true
		default:
			client.IsActive = false
			m.logger.Warn("client send buffer full, notification dropped", zap.String("client_id", client.ID))
		}
	}
}

func shouldSendToClient(filters NotificationFilters, notification models.Notification) bool {
	if len(filters.MotorcycleIDs) == 0 {
		return true
	}
	return slices.Contains(filters.MotorcycleIDs, notification.MotorcycleID)
}

// removeLocked drops a client and closes its send channel. m.mutex must be
// held for writing. Removing an unknown client is a no-op.
func (m *Manager) removeLocked(clientID string) {
	client, ok := m.clients[clientID]
	if !ok {
		return
	}
	delete(m.clients, clientID)
	close(client.Send)
	if client.Conn != nil {
		client.Conn.Close()
	}
}

// handleClient reads from the connection until it fails, applying filter
// updates sent by the client.
func (m *Manager) handleClient(client *Client) {
	defer func() {
		select {
		case m.unregister <- client:
		case <-m.done:
		}
	}()

	client.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	client.Conn.SetPongHandler(func(string) error {
		m.mutex.Lock()
		client.LastPing = time.Now()
		m.mutex.Unlock()
		return client.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go m.writeMessages(client)

	for {
		var msg Message
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("websocket read failed", zap.String("client_id", client.ID), zap.Error(err))
			}
			return
		}

		if msg.Type == MessageTypeUpdateFilters && msg.Filters != nil {
			m.mutex.Lock()
			client.Filters = *msg.Filters
			m.mutex.Unlock()
			m.logger.Debug("client filters updated", zap.String("client_id", client.ID))
		}
	}
}

func (m *Manager) writeMessages(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case notification, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(Message{Type: MessageTypeNotification, Data: &notification}); err != nil {
				m.logger.Warn("websocket write failed", zap.String("client_id", client.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// healthCheck removes clients that stopped answering pings.
func (m *Manager) healthCheck() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	for id, client := range m.clients {
		if now.Sub(client.LastPing) > clientTimeout {
			m.logger.Info("client timed out", zap.String("client_id", id))
			m.removeLocked(id)
		}
	}
}
