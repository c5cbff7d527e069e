package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	ClockIn(ctx context.Context, userID string, req ClockInRequest) (SessionResponse, error)
	ClockOut(ctx context.Context, userID string, req ClockOutRequest) (SessionResponse, error)
	LunchIn(ctx context.Context, userID string, req LunchRequest) (SessionResponse, error)
	LunchOut(ctx context.Context, userID string, req LunchRequest) (SessionResponse, error)
	GetCurrentSession(ctx context.Context, userID string) (SessionResponse, error)
	GetHistory(ctx context.Context, req HistoryRequest) (ListSessionResponse, error)
	GetTodaySummary(ctx context.Context) ([]TodaySummaryRow, error)
	GetDetailedReport(ctx context.Context, userID string, req ReportRequest) (DetailedReport, error)
	AutoClockOut(ctx context.Context, now time.Time) (AutoClockOutResult, error)
}

// PhotoStore persists clock-in verification photos.
type PhotoStore interface {
	SaveClockInPhoto(ctx context.Context, userID string, encoded string, at time.Time) (string, error)
	Delete(ctx context.Context, path string) error
}
