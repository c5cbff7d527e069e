package overtime

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allowance is approved overtime pay added to gross pay of its period.
type Allowance struct {
	ID           string
	UserID       string
	Date         time.Time
	Month        int
	Year         int
	Hours        decimal.Decimal
	Amount       decimal.Decimal
	ApprovedByID *string
	Remarks      *string
	CreatedAt    time.Time
}
