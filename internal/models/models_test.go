package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanRideMotorcycles(t *testing.T) {
	tests := map[string]bool{
		"A":   true,
		"A+B": true,
		"B":   false,
		"":    false,
	}
	for licenseType, want := range tests {
		d := DeliveryDriver{LicenseType: licenseType}
		assert.Equal(t, want, d.CanRideMotorcycles(), "license %q", licenseType)
	}
}

func TestIsValidLicenseType(t *testing.T) {
	assert.True(t, IsValidLicenseType("A"))
	assert.True(t, IsValidLicenseType("B"))
	assert.True(t, IsValidLicenseType("A+B"))
	assert.False(t, IsValidLicenseType("C"))
	assert.False(t, IsValidLicenseType("a"))
}

func TestRentalIsActiveAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	r := Rental{EndDate: now.Add(time.Second)}
	assert.True(t, r.IsActiveAt(now))

	r.EndDate = now
	assert.False(t, r.IsActiveAt(now))

	r.EndDate = now.AddDate(0, 0, -1)
	assert.False(t, r.IsActiveAt(now))
}
