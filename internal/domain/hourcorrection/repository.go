package hourcorrection

import "context"

type CorrectionFilter struct {
	UserID *string
	Month  *int
	Year   *int
	Page   int
	Limit  int
}

// CorrectionRepository stores corrections as given. Callers recalculate
// Amount before Create and Update.
type CorrectionRepository interface {
	Create(ctx context.Context, c Correction) (Correction, error)
	GetByID(ctx context.Context, id string) (Correction, error)
	Update(ctx context.Context, c Correction) (Correction, error)
	List(ctx context.Context, filter CorrectionFilter) ([]Correction, int64, error)
	ListByUserPeriod(ctx context.Context, userID string, month, year int) ([]Correction, error)
	ExistsForReasonOnDate(ctx context.Context, userID, reason string, date string) (bool, error)
}
