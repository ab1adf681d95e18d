package pricing

import "github.com/shopspring/decimal"

// LateFeePerDay is charged for every day a motorcycle is returned after the
// expected end date, regardless of plan.
var LateFeePerDay = decimal.NewFromInt(50)

// EarlyReturnFineRate is the share of the unused amount charged as a fine when
// a motorcycle comes back early. Only the 7 and 15 day plans carry a fine.
func EarlyReturnFineRate(planDays int) decimal.Decimal {
	switch planDays {
	case 7:
		return decimal.New(20, -2)
	case 15:
		return decimal.New(40, -2)
	default:
		return decimal.Zero
	}
}
