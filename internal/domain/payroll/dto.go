package payroll

import (
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PeriodRequest struct {
	UserID string `json:"user_id"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "invalid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "invalid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== PAYSLIP ==========

type PayslipUser struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type BasePayEntry struct {
	Date  *string         `json:"date"`
	Hours decimal.Decimal `json:"hours"`
	Pay   decimal.Decimal `json:"pay"`
	Notes string          `json:"notes"`
}

type CorrectionEntry struct {
	Date       *string         `json:"date"`
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
}

type OvertimeEntry struct {
	Date    *string         `json:"date"`
	Hours   decimal.Decimal `json:"hours"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks string          `json:"remarks"`
}

type DeductionEntry struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

type AdvanceEntry struct {
	Date       *string         `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Remarks    string          `json:"remarks"`
	ApprovedBy *string         `json:"approved_by"`
}

// Payslip always carries at least one row per breakdown section.
type Payslip struct {
	User                PayslipUser       `json:"user"`
	Month               int               `json:"month"`
	Year                int               `json:"year"`
	HourlyRate          decimal.Decimal   `json:"hourly_rate"`
	Currency            string            `json:"currency"`
	RateSource          RateSource        `json:"rate_source"`
	BasePayBreakdown    []BasePayEntry    `json:"base_pay_breakdown"`
	CorrectionBreakdown []CorrectionEntry `json:"correction_breakdown"`
	TotalHours          decimal.Decimal   `json:"total_hours"`
	TotalBasePay        decimal.Decimal   `json:"total_base_pay"`
	OvertimeBreakdown   []OvertimeEntry   `json:"overtime_breakdown"`
	TotalOvertime       decimal.Decimal   `json:"total_overtime"`
	GrossPay            decimal.Decimal   `json:"gross_pay"`
	DeductionsBreakdown []DeductionEntry  `json:"deductions_breakdown"`
	TotalDeductions     decimal.Decimal   `json:"total_deductions"`
	AdvanceBreakdown    []AdvanceEntry    `json:"advance_breakdown"`
	TotalAdvance        decimal.Decimal   `json:"total_advance"`
	NetPay              decimal.Decimal   `json:"net_pay"`
}

type NetPay struct {
	Month               int              `json:"month"`
	Year                int              `json:"year"`
	Currency            string           `json:"currency"`
	HourlyRate          decimal.Decimal  `json:"hourly_rate"`
	TotalHours          decimal.Decimal  `json:"total_hours"`
	TotalOvertime       decimal.Decimal  `json:"total_overtime"`
	GrossPay            decimal.Decimal  `json:"gross_pay"`
	DeductionsBreakdown []DeductionEntry `json:"deductions_breakdown"`
	TotalDeductions     decimal.Decimal  `json:"total_deductions"`
	TotalAdvance        decimal.Decimal  `json:"total_advance"`
	NetPay              decimal.Decimal  `json:"net_pay"`
}

// NetPayFromPayslip projects the totals of a payslip.
func NetPayFromPayslip(p Payslip) NetPay {
	return NetPay{
		Month:               p.Month,
		Year:                p.Year,
		Currency:            p.Currency,
		HourlyRate:          p.HourlyRate,
		TotalHours:          p.TotalHours,
		TotalOvertime:       p.TotalOvertime,
		GrossPay:            p.GrossPay,
		DeductionsBreakdown: p.DeductionsBreakdown,
		TotalDeductions:     p.TotalDeductions,
		TotalAdvance:        p.TotalAdvance,
		NetPay:              p.NetPay,
	}
}

type SummaryRow struct {
	UserID          string          `json:"user_id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	Role            string          `json:"user_role"`
	Currency        string          `json:"currency"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	TotalBasePay    decimal.Decimal `json:"total_base_pay"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalAdvance    decimal.Decimal `json:"total_advance"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

type MonthlySummary struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	RateSource RateSource      `json:"rate_source"`
	Rows       []SummaryRow    `json:"rows"`
	TotalGross decimal.Decimal `json:"total_gross"`
	TotalNet   decimal.Decimal `json:"total_net"`
}
