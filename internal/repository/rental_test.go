package repository

import (
	"testing"
	"time"

	"moto-rental/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRentalDocumentPreservesAmounts(t *testing.T) {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	fine := decimal.RequireFromString("18.00")
	rental := &models.Rental{
		ID:              "r-1",
		MotorcycleID:    "m-1",
		DriverID:        "d-1",
		StartDate:       start,
		ExpectedEndDate: start.AddDate(0, 0, 7),
		EndDate:         start.AddDate(0, 0, 4),
		PlanDays:        7,
		DailyRate:       decimal.RequireFromString("30.00"),
		TotalAmount:     decimal.RequireFromString("228.00"),
		FineAmount:      &fine,
		Status:          models.RentalSettled,
		CreatedAt:       start.Add(-12 * time.Hour),
	}

	doc, err := toRentalDocument(rental)
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded rentalDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got, err := decoded.toModel()
	require.NoError(t, err)

	assert.True(t, got.DailyRate.Equal(rental.DailyRate))
	assert.True(t, got.TotalAmount.Equal(rental.TotalAmount))
	require.NotNil(t, got.FineAmount)
	assert.True(t, got.FineAmount.Equal(fine))
	assert.Nil(t, got.AdditionalAmount)
	assert.Equal(t, rental.ExpectedEndDate, got.ExpectedEndDate)
	assert.Equal(t, models.RentalSettled, got.Status)
}

func TestRentalDocumentOmitsAbsentAdjustments(t *testing.T) {
	doc, err := toRentalDocument(&models.Rental{
		ID:          "r-2",
		DailyRate:   decimal.NewFromInt(22),
		TotalAmount: decimal.NewFromInt(660),
	})
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "fine_amount")
	assert.NotContains(t, fields, "additional_amount")
	assert.NotContains(t, fields, "updated_at")
}
