package overtime

import (
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// AuthorizeRequest records approved overtime. When Amount is omitted it is
// derived from the user's rate and the role's overtime multiplier.
type AuthorizeRequest struct {
	UserID  string           `json:"user_id"`
	Date    string           `json:"date"`
	Hours   decimal.Decimal  `json:"hours"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Remarks *string          `json:"remarks,omitempty"`

	ParsedDate time.Time `json:"-"`
}

func (r *AuthorizeRequest) Validate() error {
	var errs validator.ValidationErrors
	var ok bool

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if r.ParsedDate, ok = validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "hours must be greater than zero"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListOvertimeRequest struct {
	UserID string `json:"user_id"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}

func (r *ListOvertimeRequest) Validate() error {
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

type AllowanceResponse struct {
	ID      string          `json:"id"`
	UserID  string          `json:"user_id"`
	Date    string          `json:"date"`
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Hours   decimal.Decimal `json:"hours"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks *string         `json:"remarks"`
}

func NewAllowanceResponse(a Allowance) AllowanceResponse {
	return AllowanceResponse{
		ID:      a.ID,
		UserID:  a.UserID,
		Date:    a.Date.Format("2006-01-02"),
		Month:   a.Month,
		Year:    a.Year,
		Hours:   a.Hours,
		Amount:  a.Amount,
		Remarks: a.Remarks,
	}
}
