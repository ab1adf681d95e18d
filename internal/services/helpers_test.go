package services

import (
	"context"
	"testing"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/pricing"
	"moto-rental/internal/repository/memstore"
	"moto-rental/pkg/messaging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixedNow is a mid-afternoon instant so start-date truncation is visible.
var fixedNow = time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

type rentalFixture struct {
	store   *memstore.Store
	service *RentalService
}

func newRentalFixture(t *testing.T) *rentalFixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Motorcycles.Create(ctx, &models.Motorcycle{
		ID: "moto-1", Identifier: "MOTO001", Year: 2024, Model: "Honda CG 160", LicensePlate: "ABC1D23",
	}))
	for id, licenseType := range map[string]string{
		"driver-a":  models.LicenseTypeA,
		"driver-ab": models.LicenseTypeAB,
		"driver-b":  models.LicenseTypeB,
	} {
		require.NoError(t, store.Drivers.Create(ctx, &models.DeliveryDriver{
			ID: id, CNPJ: "cnpj-" + id, LicenseNumber: "cnh-" + id, LicenseType: licenseType,
		}))
	}

	service := NewRentalService(store.Rentals, store.Motorcycles, store.Drivers, pricing.DefaultTable(), zap.NewNop())
	service.SetClock(func() time.Time { return fixedNow })

	return &rentalFixture{store: store, service: service}
}

func (f *rentalFixture) create(t *testing.T, driverID string, planDays int) *models.Rental {
	t.Helper()
	rental, err := f.service.Create(context.Background(), &CreateRentalRequest{
		MotorcycleID: "moto-1",
		DriverID:     driverID,
		PlanDays:     planDays,
	})
	require.NoError(t, err)
	return rental
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got.String())
}

func assertOptionalAmount(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	if want == "" {
		assert.Nil(t, got, "expected no amount")
		return
	}
	if assert.NotNil(t, got, "expected amount %s", want) {
		assertAmount(t, want, *got)
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishVehicleRegistered(ctx context.Context, evt messaging.VehicleRegistered) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastNotification(n models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

type mockMotorcycleReader struct {
	mock.Mock
}

func (m *mockMotorcycleReader) FindByID(ctx context.Context, id string) (*models.Motorcycle, error) {
	args := m.Called(ctx, id)
	motorcycle, _ := args.Get(0).(*models.Motorcycle)
	return motorcycle, args.Error(1)
}
