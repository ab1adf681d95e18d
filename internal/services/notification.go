package services

import (
	"context"
	"fmt"
	"time"

	"moto-rental/internal/models"
	"moto-rental/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// notifiedYear is the model year whose registrations produce a notification.
const notifiedYear = 2024

// Broadcaster pushes stored notifications to live subscribers.
type Broadcaster interface {
	BroadcastNotification(notification models.Notification) error
}

type NotificationService struct {
	notifications NotificationStore
	broadcaster   Broadcaster
	now           func() time.Time
	logger        *zap.Logger
}

func NewNotificationService(notifications NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		now:           time.Now,
		logger:        logger.With(zap.String("component", "notification_service")),
	}
}

// SetBroadcaster attaches a live feed for new notifications.
func (s *NotificationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// HandleVehicleRegistered stores a notification for motorcycles of the
// notified year. Redelivered events produce duplicate notifications.
func (s *NotificationService) HandleVehicleRegistered(ctx context.Context, evt messaging.VehicleRegistered) error {
	if evt.Year != notifiedYear {
		s.logger.Debug("registration ignored", zap.String("vehicle_id", evt.VehicleID), zap.Int("year", evt.Year))
		return nil
	}

	notification := models.Notification{
		ID:           uuid.NewString(),
		MotorcycleID: evt.VehicleID,
		Message:      fmt.Sprintf("Motorcycle %s from year %d was registered", evt.Identifier, notifiedYear),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.notifications.Create(ctx, &notification); err != nil {
		return fmt.Errorf("saving notification: %w", err)
	}

	s.logger.Info("notification created",
		zap.String("notification_id", notification.ID),
		zap.String("motorcycle_id", notification.MotorcycleID))

	if s.broadcaster != nil {
		if err := s.broadcaster.BroadcastNotification(notification); err != nil {
			s.logger.Warn("broadcasting notification failed", zap.Error(err))
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, motorcycleID string) ([]*models.Notification, error) {
	return s.notifications.FindAll(ctx, motorcycleID)
}
