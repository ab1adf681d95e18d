package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalOpen    RentalStatus = "open"
	RentalSettled RentalStatus = "settled"
)

// Rental is a motorcycle lease under a fixed plan. DailyRate is copied from the
// pricing table when the rental is created and never re-read afterwards.
// EndDate equals ExpectedEndDate until the rental is settled.
type Rental struct {
	ID               string           `json:"id"`
	MotorcycleID     string           `json:"motorcycleId"`
	DriverID         string           `json:"driverId"`
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"`
	ExpectedEndDate  time.Time        `json:"expectedEndDate"`
	PlanDays         int              `json:"planDays"`
	DailyRate        decimal.Decimal  `json:"dailyRate"`
	TotalAmount      decimal.Decimal  `json:"totalAmount"`
	FineAmount       *decimal.Decimal `json:"fineAmount,omitempty"`
	AdditionalAmount *decimal.Decimal `json:"additionalAmount,omitempty"`
	Status           RentalStatus     `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        *time.Time       `json:"updatedAt,omitempty"`
}

// IsActiveAt reports whether the rental has not yet ended at the given instant.
func (r *Rental) IsActiveAt(now time.Time) bool {
	return r.EndDate.After(now)
}
