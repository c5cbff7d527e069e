package user

import "context"

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, req ListUserRequest) (ListUserResponse, error)
	UpdateHourlyRate(ctx context.Context, id string, req UpdateHourlyRateRequest) (UserResponse, error)
	UpdateFlags(ctx context.Context, id string, req UpdateFlagsRequest) (UserResponse, error)
	UpdateLunchWindow(ctx context.Context, id string, req UpdateLunchWindowRequest) (UserResponse, error)
	GetRateHistory(ctx context.Context, id string) ([]RateSnapshotResponse, error)
}
