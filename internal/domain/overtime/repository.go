package overtime

import (
	"context"

	"github.com/shopspring/decimal"
)

type OvertimeRepository interface {
	Create(ctx context.Context, a Allowance) (Allowance, error)
	ListByUser(ctx context.Context, userID string, month, year int) ([]Allowance, error)
	TotalForPeriod(ctx context.Context, userID string, month, year int) (decimal.Decimal, error)
}
