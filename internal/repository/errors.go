package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Collection names shared with pkg/database index setup.
const (
	MotorcycleCollection   = "motorcycles"
	DriverCollection       = "delivery_drivers"
	RentalCollection       = "rentals"
	NotificationCollection = "motorcycle_notifications"
)

const queryTimeout = 10 * time.Second

// RentalFilter narrows rental listings. Empty fields match everything.
type RentalFilter struct {
	DriverID     string
	MotorcycleID string
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}
