package services

import (
	"fmt"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/pricing"

	"github.com/shopspring/decimal"
)

// SettlementQuote is the cost of returning a rental on a given date.
// FineAmount and AdditionalAmount are nil unless positive.
type SettlementQuote struct {
	RentalID         string           `json:"rentalId"`
	ReturnDate       time.Time        `json:"returnDate"`
	DayDifference    int              `json:"dayDifference"`
	TotalAmount      decimal.Decimal  `json:"totalAmount"`
	FineAmount       *decimal.Decimal `json:"fineAmount,omitempty"`
	AdditionalAmount *decimal.Decimal `json:"additionalAmount,omitempty"`
	Details          string           `json:"details"`
}

// computeSettlement compares calendar dates only. An early return is fined a
// share of the unused days keyed by the original plan, a late return pays a
// flat fee per extra day.
func computeSettlement(rental *models.Rental, returnDate time.Time) SettlementQuote {
	dayDiff := daysBetween(rental.ExpectedEndDate, returnDate)

	fine := decimal.Zero
	additional := decimal.Zero
	var details string

	switch {
	case dayDiff < 0:
		unusedDays := -dayDiff
		unused := rental.DailyRate.Mul(decimal.NewFromInt(int64(unusedDays)))
		fine = unused.Mul(pricing.EarlyReturnFineRate(rental.PlanDays))
		details = fmt.Sprintf("Early return by %d day(s). Unused amount: %s. Fine: %s",
			unusedDays, unused.StringFixed(2), fine.StringFixed(2))
	case dayDiff > 0:
		additional = pricing.LateFeePerDay.Mul(decimal.NewFromInt(int64(dayDiff)))
		details = fmt.Sprintf("Late return by %d day(s). Additional charge: %s",
			dayDiff, additional.StringFixed(2))
	default:
		details = "Returned on the expected date. No fine or additional charge"
	}

	return SettlementQuote{
		RentalID:         rental.ID,
		ReturnDate:       returnDate,
		DayDifference:    dayDiff,
		TotalAmount:      rental.TotalAmount.Add(fine).Add(additional),
		FineAmount:       positiveOrNil(fine),
		AdditionalAmount: positiveOrNil(additional),
		Details:          details,
	}
}

func positiveOrNil(d decimal.Decimal) *decimal.Decimal {
	if !d.IsPositive() {
		return nil
	}
	return &d
}
