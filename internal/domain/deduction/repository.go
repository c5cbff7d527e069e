package deduction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type DeductionRepository interface {
	Create(ctx context.Context, d Statutory) (Statutory, error)
	UpdatePercentage(ctx context.Context, id string, percentage decimal.Decimal) error
	// GetByNameForUpdate locks the row for the surrounding transaction.
	GetByNameForUpdate(ctx context.Context, name string) (Statutory, error)
	GetByName(ctx context.Context, name string) (Statutory, error)
	List(ctx context.Context) ([]Statutory, error)
	// Delete marks the deduction deleted at the given instant. The row and its
	// snapshots are kept for payslips of earlier periods.
	Delete(ctx context.Context, id string, at time.Time) error
}

type SnapshotRepository interface {
	Create(ctx context.Context, s Snapshot) (Snapshot, error)
	CloseOpen(ctx context.Context, deductionID string, at time.Time) error
	GetAsOf(ctx context.Context, deductionID string, at time.Time) (Snapshot, error)
	ListByDeduction(ctx context.Context, deductionID string) ([]Snapshot, error)
	// ListInForceAt returns every snapshot covering at, deleted deductions
	// included, ordered by name.
	ListInForceAt(ctx context.Context, at time.Time) ([]Snapshot, error)
}
