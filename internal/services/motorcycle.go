package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/repository"
	"moto-rental/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher emits motorcycle registration events.
type EventPublisher interface {
	PublishVehicleRegistered(ctx context.Context, evt messaging.VehicleRegistered) error
}

// RentalCounter reports how many rentals reference a motorcycle.
type RentalCounter interface {
	CountByMotorcycle(ctx context.Context, motorcycleID string) (int64, error)
}

type MotorcycleService struct {
	motorcycles MotorcycleStore
	rentals     RentalCounter
	publisher   EventPublisher
	now         func() time.Time
	logger      *zap.Logger
}

func NewMotorcycleService(
	motorcycles MotorcycleStore,
	rentals RentalCounter,
	publisher EventPublisher,
	logger *zap.Logger,
) *MotorcycleService {
	return &MotorcycleService{
		motorcycles: motorcycles,
		rentals:     rentals,
		publisher:   publisher,
		now:         time.Now,
		logger:      logger.With(zap.String("component", "motorcycle_service")),
	}
}

type CreateMotorcycleRequest struct {
	Identifier   string `json:"identifier" validate:"required,max=50"`
	Year         int    `json:"year" validate:"required,min=1900,max=2100"`
	Model        string `json:"model" validate:"required,max=100"`
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
}

type UpdateLicensePlateRequest struct {
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
}

// Create stores the motorcycle and then publishes its registration event.
// When publishing fails the stored motorcycle is returned together with an
// error wrapping messaging.ErrPublishFailure.
func (s *MotorcycleService) Create(ctx context.Context, req *CreateMotorcycleRequest) (*models.Motorcycle, error) {
	plate := strings.TrimSpace(req.LicensePlate)

	if err := s.ensurePlateAvailable(ctx, plate); err != nil {
		return nil, err
	}

	motorcycle := &models.Motorcycle{
		ID:           uuid.NewString(),
		Identifier:   strings.TrimSpace(req.Identifier),
		Year:         req.Year,
		Model:        strings.TrimSpace(req.Model),
		LicensePlate: plate,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.motorcycles.Create(ctx, motorcycle); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateLicensePlate
		}
		return nil, fmt.Errorf("saving motorcycle: %w", err)
	}

	evt := messaging.VehicleRegistered{
		VehicleID:    motorcycle.ID,
		Identifier:   motorcycle.Identifier,
		Year:         motorcycle.Year,
		Model:        motorcycle.Model,
		LicensePlate: motorcycle.LicensePlate,
		Timestamp:    s.now().UTC(),
	}
	if err := s.publisher.PublishVehicleRegistered(ctx, evt); err != nil {
		s.logger.Error("motorcycle stored but registration event was not published",
			zap.String("motorcycle_id", motorcycle.ID), zap.Error(err))
		return motorcycle, fmt.Errorf("motorcycle %s stored: %w", motorcycle.ID, err)
	}

	s.logger.Info("motorcycle registered",
		zap.String("motorcycle_id", motorcycle.ID),
		zap.String("license_plate", motorcycle.LicensePlate))
	return motorcycle, nil
}

func (s *MotorcycleService) Get(ctx context.Context, id string) (*models.Motorcycle, error) {
	return findMotorcycle(ctx, s.motorcycles, id)
}

// List returns all motorcycles, or only the one carrying licensePlate.
func (s *MotorcycleService) List(ctx context.Context, licensePlate string) ([]*models.Motorcycle, error) {
	return s.motorcycles.FindAll(ctx, strings.TrimSpace(licensePlate))
}

func (s *MotorcycleService) UpdateLicensePlate(ctx context.Context, id string, req *UpdateLicensePlateRequest) (*models.Motorcycle, error) {
	motorcycle, err := findMotorcycle(ctx, s.motorcycles, id)
	if err != nil {
		return nil, err
	}

	plate := strings.TrimSpace(req.LicensePlate)
	if plate == motorcycle.LicensePlate {
		return motorcycle, nil
	}
	if err := s.ensurePlateAvailable(ctx, plate); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.motorcycles.UpdateLicensePlate(ctx, id, plate, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrDuplicateLicensePlate
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrMotorcycleNotFound
		}
		return nil, fmt.Errorf("updating license plate: %w", err)
	}

	motorcycle.LicensePlate = plate
	motorcycle.UpdatedAt = &now
	return motorcycle, nil
}

// Delete removes a motorcycle that has never been rented.
func (s *MotorcycleService) Delete(ctx context.Context, id string) error {
	if _, err := findMotorcycle(ctx, s.motorcycles, id); err != nil {
		return err
	}

	count, err := s.rentals.CountByMotorcycle(ctx, id)
	if err != nil {
		return fmt.Errorf("counting rentals: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d rental(s)", ErrMotorcycleHasRentals, count)
	}

	if err := s.motorcycles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMotorcycleNotFound
		}
		return fmt.Errorf("deleting motorcycle: %w", err)
	}
	return nil
}

func (s *MotorcycleService) ensurePlateAvailable(ctx context.Context, plate string) error {
	_, err := s.motorcycles.FindByLicensePlate(ctx, plate)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicateLicensePlate, plate)
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("checking license plate: %w", err)
	}
}
