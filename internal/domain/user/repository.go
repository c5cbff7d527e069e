package user

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type UserFilter struct {
	Role   *Role
	Status *Status
	Page   int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// GetByIDForUpdate locks the user row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ListPresentToday(ctx context.Context) ([]User, error)
	ListOnHoliday(ctx context.Context) ([]User, error)
	ListActive(ctx context.Context) ([]User, error)
	UpdateHourlyRate(ctx context.Context, id string, rate decimal.Decimal, currency string) error
	UpdateFlags(ctx context.Context, id string, isOnLeave, isOnHoliday bool) error
	UpdateLunchWindow(ctx context.Context, id string, start, end *int) error
	SetPresentToday(ctx context.Context, id string, present bool) error
}

type RateSnapshotRepository interface {
	Create(ctx context.Context, snapshot RateSnapshot) (RateSnapshot, error)
	// CloseOpen sets effective_to on the user's open snapshot, if any.
	CloseOpen(ctx context.Context, userID string, at time.Time) error
	// GetAsOf returns the snapshot in force at the given instant.
	GetAsOf(ctx context.Context, userID string, at time.Time) (RateSnapshot, error)
	ListByUser(ctx context.Context, userID string) ([]RateSnapshot, error)
}
