package advance

import (
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	UserID  string          `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks *string         `json:"remarks,omitempty"`
	Month   *int            `json:"month,omitempty"`
	Year    *int            `json:"year,omitempty"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if r.Month != nil && !validator.IsValidMonth(*r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if r.Year != nil && !validator.IsValidYear(*r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "invalid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAdvanceRequest struct {
	UserID string `json:"user_id"`
	Month  *int   `json:"month,omitempty"`
	Year   *int   `json:"year,omitempty"`
}

func (r *ListAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if r.Month != nil && !validator.IsValidMonth(*r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if r.Year != nil && !validator.IsValidYear(*r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "invalid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Remarks    *string         `json:"remarks"`
	ApprovedBy *string         `json:"approved_by"`
	CreatedAt  string          `json:"created_at"`
}

func NewPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Amount:     p.Amount,
		Month:      p.Month,
		Year:       p.Year,
		Remarks:    p.Remarks,
		ApprovedBy: p.ApprovedByName,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
