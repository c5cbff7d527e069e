package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, session Session) (Session, error)
	// GetOpenByUser returns ErrSessionNotFound when the user has no open session.
	// forUpdate locks the row for the surrounding transaction.
	GetOpenByUser(ctx context.Context, userID string, forUpdate bool) (Session, error)
	Close(ctx context.Context, session Session) error
	GetLatestAwaitingLunchIn(ctx context.Context, userID string) (Session, error)
	GetLatestAwaitingLunchOut(ctx context.Context, userID string) (Session, error)
	UpdateLunch(ctx context.Context, session Session) error
	List(ctx context.Context, filter AttendanceFilter) ([]Session, int64, error)
	ListClosedForPeriod(ctx context.Context, userID string, month, year int) ([]Session, error)
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]Session, error)
	ListByDate(ctx context.Context, date time.Time) ([]Session, error)
}

type AttendanceFilter struct {
	UserID    *string
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}
