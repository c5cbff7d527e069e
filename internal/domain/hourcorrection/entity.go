package hourcorrection

import (
	"time"

	"github.com/shopspring/decimal"
)

const HolidayAllocationReason = "Holiday hours auto allocation"

// Correction is a signed manual adjustment of payable hours. HourlyRate is
// frozen when the row is first written; Amount is always derived.
type Correction struct {
	ID            string
	UserID        string
	Date          time.Time
	Month         int
	Year          int
	Hours         decimal.Decimal
	HourlyRate    decimal.Decimal
	Amount        decimal.Decimal
	Reason        string
	CorrectedByID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined
	UserFullName *string
	UserEmail    *string
}

// Recalculate sets Amount from Hours and HourlyRate. Repositories call it on
// every write, so a caller-supplied Amount is never stored.
func (c *Correction) Recalculate() {
	c.Amount = c.Hours.Mul(c.HourlyRate)
}
