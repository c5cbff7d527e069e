package rate

import (
	"context"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

type RateRepository interface {
	Upsert(ctx context.Context, setting Setting) (Setting, error)
	GetByRole(ctx context.Context, role user.Role) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
}
