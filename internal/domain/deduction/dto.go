package deduction

import (
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type SetDeductionRequest struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

func (r *SetDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
	}
	if r.Percentage.IsNegative() || r.Percentage.GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "percentage", Message: "percentage must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	UpdatedAt  string          `json:"updated_at"`
}

func NewDeductionResponse(d Statutory) DeductionResponse {
	return DeductionResponse{
		ID:         d.ID,
		Name:       d.Name,
		Percentage: d.Percentage,
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
}

type SnapshotResponse struct {
	Percentage    decimal.Decimal `json:"percentage"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to"`
}

func NewSnapshotResponse(s Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Percentage:    s.Percentage,
		EffectiveFrom: s.EffectiveFrom.Format(time.RFC3339),
	}
	if s.EffectiveTo != nil {
		to := s.EffectiveTo.Format(time.RFC3339)
		resp.EffectiveTo = &to
	}
	return resp
}
