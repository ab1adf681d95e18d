// Package pricing holds the rental plan catalog and the fees applied when a
// rental is settled.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Plan is a fixed rental length with its daily rate.
type Plan struct {
	Days      int             `json:"days"`
	DailyRate decimal.Decimal `json:"dailyRate"`
}

// Table maps plan length in days to a daily rate. A Table is never modified
// after construction and is safe for concurrent use.
type Table struct {
	rates map[int]decimal.Decimal
}

// NewTable copies rates into a new Table.
func NewTable(rates map[int]decimal.Decimal) Table {
	copied := make(map[int]decimal.Decimal, len(rates))
	for days, rate := range rates {
		copied[days] = rate
	}
	return Table{rates: copied}
}

// DefaultTable returns the standard plan catalog.
func DefaultTable() Table {
	return NewTable(map[int]decimal.Decimal{
		7:  decimal.NewFromInt(30),
		15: decimal.NewFromInt(28),
		30: decimal.NewFromInt(22),
		45: decimal.NewFromInt(20),
		50: decimal.NewFromInt(18),
	})
}

func (t Table) Has(days int) bool {
	_, ok := t.rates[days]
	return ok
}

func (t Table) Rate(days int) (decimal.Decimal, bool) {
	rate, ok := t.rates[days]
	return rate, ok
}

// Plans lists the catalog ordered by plan length.
func (t Table) Plans() []Plan {
	plans := make([]Plan, 0, len(t.rates))
	for days, rate := range t.rates {
		plans = append(plans, Plan{Days: days, DailyRate: rate})
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Days < plans[j].Days })
	return plans
}
