package models

import (
	"strings"
	"time"
)

// License categories accepted for delivery drivers.
const (
	LicenseTypeA  = "A"
	LicenseTypeB  = "B"
	LicenseTypeAB = "A+B"
)

type DeliveryDriver struct {
	ID               string     `bson:"_id" json:"id"`
	Identifier       string     `bson:"identifier" json:"identifier"`
	Name             string     `bson:"name" json:"name"`
	CNPJ             string     `bson:"cnpj" json:"cnpj"`
	BirthDate        time.Time  `bson:"birth_date" json:"birthDate"`
	LicenseNumber    string     `bson:"license_number" json:"licenseNumber"`
	LicenseType      string     `bson:"license_type" json:"licenseType"`
	LicenseImagePath string     `bson:"license_image_path,omitempty" json:"licenseImagePath,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt        *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// CanRideMotorcycles reports whether the license covers category A. Composite
// categories such as "A+B" qualify.
func (d *DeliveryDriver) CanRideMotorcycles() bool {
	return strings.Contains(d.LicenseType, LicenseTypeA)
}

func IsValidLicenseType(licenseType string) bool {
	switch licenseType {
	case LicenseTypeA, LicenseTypeB, LicenseTypeAB:
		return true
	}
	return false
}
