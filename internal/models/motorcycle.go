package models

import "time"

type Motorcycle struct {
	ID           string     `bson:"_id" json:"id"`
	Identifier   string     `bson:"identifier" json:"identifier"`
	Year         int        `bson:"year" json:"year"`
	Model        string     `bson:"model" json:"model"`
	LicensePlate string     `bson:"license_plate" json:"licensePlate"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt    *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
