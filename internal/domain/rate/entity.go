package rate

import (
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

var DefaultOvertimeMultiplier = decimal.NewFromFloat(1.5)

// Setting holds the pay policy of one role.
type Setting struct {
	ID                 string
	Role               user.Role
	HourlyRate         decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	AdvanceLimit       decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
