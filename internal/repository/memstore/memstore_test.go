package memstore

import (
	"context"
	"testing"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotorcyclePlateIsUnique(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Motorcycles.Create(ctx, &models.Motorcycle{ID: "m1", LicensePlate: "ABC1D23"}))
	err := store.Motorcycles.Create(ctx, &models.Motorcycle{ID: "m2", LicensePlate: "ABC1D23"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	require.NoError(t, store.Motorcycles.Create(ctx, &models.Motorcycle{ID: "m2", LicensePlate: "XYZ9K88"}))
	err = store.Motorcycles.UpdateLicensePlate(ctx, "m2", "ABC1D23", time.Now())
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Rentals.Create(ctx, &models.Rental{ID: "r1", DriverID: "d1", PlanDays: 7}))

	got, err := store.Rentals.FindByID(ctx, "r1")
	require.NoError(t, err)
	got.PlanDays = 50

	again, err := store.Rentals.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 7, again.PlanDays)
}

func TestRentalFilters(t *testing.T) {
	ctx := context.Background()
	store := New()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Rentals.Create(ctx, &models.Rental{ID: "r1", DriverID: "d1", MotorcycleID: "m1", CreatedAt: base}))
	require.NoError(t, store.Rentals.Create(ctx, &models.Rental{ID: "r2", DriverID: "d1", MotorcycleID: "m2", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Rentals.Create(ctx, &models.Rental{ID: "r3", DriverID: "d2", MotorcycleID: "m1", CreatedAt: base.Add(2 * time.Hour)}))

	byDriver, err := store.Rentals.FindByDriver(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, byDriver, 2)
	assert.Equal(t, "r2", byDriver[0].ID)

	count, err := store.Rentals.CountByMotorcycle(ctx, "m1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = store.Rentals.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDriverUniqueness(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Drivers.Create(ctx, &models.DeliveryDriver{ID: "d1", CNPJ: "111", LicenseNumber: "L1"}))

	err := store.Drivers.Create(ctx, &models.DeliveryDriver{ID: "d2", CNPJ: "111", LicenseNumber: "L2"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	err = store.Drivers.Create(ctx, &models.DeliveryDriver{ID: "d3", CNPJ: "222", LicenseNumber: "L1"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}
