package advance

import "context"

type AdvanceService interface {
	Create(ctx context.Context, approverID string, req CreateAdvanceRequest) (PaymentResponse, error)
	ListByUser(ctx context.Context, req ListAdvanceRequest) ([]PaymentResponse, error)
}
