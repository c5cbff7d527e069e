package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statutory is a named percentage withheld from gross pay, e.g. NSSF 6%.
type Statutory struct {
	ID         string
	Name       string
	Percentage decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// Snapshot is one interval during which a deduction had a given percentage.
type Snapshot struct {
	ID            string
	DeductionID   string
	Name          string
	Percentage    decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
}

func (s Snapshot) CoversInstant(at time.Time) bool {
	if at.Before(s.EffectiveFrom) {
		return false
	}
	return s.EffectiveTo == nil || at.Before(*s.EffectiveTo)
}
