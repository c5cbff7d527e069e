package hourcorrection

import (
	"context"
	"time"
)

type CorrectionService interface {
	Record(ctx context.Context, correctedBy *string, req RecordRequest) (CorrectionResponse, error)
	UpdateHours(ctx context.Context, id string, req UpdateHoursRequest) (CorrectionResponse, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	// AllocateHolidayHours credits each active user on holiday with the day's
	// working hours minus one hour of lunch.
	AllocateHolidayHours(ctx context.Context, now time.Time) (int, error)
}
