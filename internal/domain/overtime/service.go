package overtime

import "context"

type OvertimeService interface {
	Authorize(ctx context.Context, approverID string, req AuthorizeRequest) (AllowanceResponse, error)
	ListByUser(ctx context.Context, req ListOvertimeRequest) ([]AllowanceResponse, error)
}
