package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

type AdvanceRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	ListByUser(ctx context.Context, userID string, month, year *int) ([]Payment, error)
	TotalForPeriod(ctx context.Context, userID string, month, year int) (decimal.Decimal, error)
}
