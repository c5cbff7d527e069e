package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money paid ahead of payroll; it reduces net pay for its period.
type Payment struct {
	ID           string
	UserID       string
	Amount       decimal.Decimal
	Month        int
	Year         int
	ApprovedByID *string
	Remarks      *string
	CreatedAt    time.Time

	// Joined
	ApprovedByName *string
}
