package rate

import (
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SetRateRequest struct {
	Role               string           `json:"user_role"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate"`
	OvertimeMultiplier *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	AdvanceLimit       decimal.Decimal  `json:"advance_limit"`
}

func (r *SetRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !user.Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "user_role", Message: "invalid role"})
	}
	if r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "hourly_rate must be non-negative"})
	}
	if r.OvertimeMultiplier == nil {
		m := DefaultOvertimeMultiplier
		r.OvertimeMultiplier = &m
	} else if !r.OvertimeMultiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "overtime_multiplier must be positive"})
	}
	if r.AdvanceLimit.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "advance_limit", Message: "advance_limit must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingResponse struct {
	Role               string          `json:"user_role"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	AdvanceLimit       decimal.Decimal `json:"advance_limit"`
}

func NewSettingResponse(s Setting) SettingResponse {
	return SettingResponse{
		Role:               string(s.Role),
		HourlyRate:         s.HourlyRate,
		OvertimeMultiplier: s.OvertimeMultiplier,
		AdvanceLimit:       s.AdvanceLimit,
	}
}
