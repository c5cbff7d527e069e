package rate

import (
	"context"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

type RateService interface {
	SetRate(ctx context.Context, req SetRateRequest) (SettingResponse, error)
	GetRate(ctx context.Context, role user.Role) (SettingResponse, error)
	List(ctx context.Context) ([]SettingResponse, error)
}
