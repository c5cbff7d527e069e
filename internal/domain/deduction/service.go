package deduction

import "context"

type DeductionService interface {
	SetDeduction(ctx context.Context, req SetDeductionRequest) (DeductionResponse, error)
	GetDeduction(ctx context.Context, name string) (DeductionResponse, error)
	List(ctx context.Context) ([]DeductionResponse, error)
	Delete(ctx context.Context, name string) error
	History(ctx context.Context, name string) ([]SnapshotResponse, error)
}
