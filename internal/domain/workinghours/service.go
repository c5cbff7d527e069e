package workinghours

import (
	"context"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

type WorkingHoursService interface {
	Upsert(ctx context.Context, req UpsertRequest) (ConfigResponse, error)
	List(ctx context.Context) (map[string]map[string]ConfigResponse, error)
	GetHours(ctx context.Context, role user.Role, day string) (ConfigResponse, error)
	IsWithinWorkingHours(ctx context.Context, role user.Role, day string, clock string) (bool, error)
	// ConfigFor resolves the active window for role on the weekday of at, in the
	// window's own timezone.
	ConfigFor(ctx context.Context, role user.Role, at time.Time) (Config, error)
	SeedDefaults(ctx context.Context) (int, error)
}
