package models

import "time"

// Notification records that a motorcycle of interest was registered.
type Notification struct {
	ID           string    `bson:"_id" json:"id"`
	MotorcycleID string    `bson:"motorcycle_id" json:"motorcycleId"`
	Message      string    `bson:"message" json:"message"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
