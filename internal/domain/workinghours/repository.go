package workinghours

import (
	"context"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

type WorkingHoursRepository interface {
	// Upsert inserts or replaces the row keyed by (day_of_week, role, timezone).
	Upsert(ctx context.Context, cfg Config) (Config, error)
	List(ctx context.Context) ([]Config, error)
	// ListActiveByRole returns active rows for a role ordered by day_of_week.
	ListActiveByRole(ctx context.Context, role user.Role) ([]Config, error)
	GetActive(ctx context.Context, role user.Role, dayOfWeek int) (Config, error)
}
