package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/repository"
)

// The Mongo repositories and memstore both satisfy these.

type MotorcycleStore interface {
	Create(ctx context.Context, motorcycle *models.Motorcycle) error
	FindByID(ctx context.Context, id string) (*models.Motorcycle, error)
	FindByLicensePlate(ctx context.Context, plate string) (*models.Motorcycle, error)
	FindAll(ctx context.Context, licensePlate string) ([]*models.Motorcycle, error)
	UpdateLicensePlate(ctx context.Context, id, plate string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type DriverStore interface {
	Create(ctx context.Context, driver *models.DeliveryDriver) error
	FindByID(ctx context.Context, id string) (*models.DeliveryDriver, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*models.DeliveryDriver, error)
	FindByLicenseNumber(ctx context.Context, licenseNumber string) (*models.DeliveryDriver, error)
	FindAll(ctx context.Context) ([]*models.DeliveryDriver, error)
	UpdateLicenseImage(ctx context.Context, id, path string, updatedAt time.Time) error
}

type RentalStore interface {
	Create(ctx context.Context, rental *models.Rental) error
	FindByID(ctx context.Context, id string) (*models.Rental, error)
	Update(ctx context.Context, rental *models.Rental) error
	FindByDriver(ctx context.Context, driverID string) ([]*models.Rental, error)
	FindAll(ctx context.Context, filter repository.RentalFilter) ([]*models.Rental, error)
	CountByMotorcycle(ctx context.Context, motorcycleID string) (int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindAll(ctx context.Context, motorcycleID string) ([]*models.Notification, error)
}

type MotorcycleReader interface {
	FindByID(ctx context.Context, id string) (*models.Motorcycle, error)
}

type DriverReader interface {
	FindByID(ctx context.Context, id string) (*models.DeliveryDriver, error)
}

// Lookups that report not found as an error and lookups that return nil are
// treated the same.

func findMotorcycle(ctx context.Context, store MotorcycleReader, id string) (*models.Motorcycle, error) {
	m, err := store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && m == nil) {
		return nil, ErrMotorcycleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up motorcycle %s: %w", id, err)
	}
	return m, nil
}

func findDriver(ctx context.Context, store DriverReader, id string) (*models.DeliveryDriver, error) {
	d, err := store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && d == nil) {
		return nil, ErrDriverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up driver %s: %w", id, err)
	}
	return d, nil
}

func findRental(ctx context.Context, store RentalStore, id string) (*models.Rental, error) {
	r, err := store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && r == nil) {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up rental %s: %w", id, err)
	}
	return r, nil
}
