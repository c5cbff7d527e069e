package hourcorrection

import (
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RecordRequest takes signed hours; positive adds, negative deducts. Zero is allowed.
type RecordRequest struct {
	UserID     string           `json:"user_id"`
	Hours      decimal.Decimal  `json:"hours"`
	Reason     string           `json:"reason"`
	Month      *int             `json:"month,omitempty"`
	Year       *int             `json:"year,omitempty"`
	Date       *string          `json:"date,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`

	ParsedDate *time.Time `json:"-"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if r.Month != nil && !validator.IsValidMonth(*r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if r.Year != nil && !validator.IsValidYear(*r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "invalid year"})
	}
	if r.Date != nil {
		d, ok := validator.IsValidDate(*r.Date)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
		}
		r.ParsedDate = &d
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "hourly_rate must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateHoursRequest struct {
	Hours  decimal.Decimal `json:"hours"`
	Reason *string         `json:"reason,omitempty"`
}

func (r *UpdateHoursRequest) Validate() error {
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "reason must not be blank"}}
	}
	return nil
}

type ListRequest struct {
	UserID  *string `json:"user_id,omitempty"`
	Month   *int    `json:"month,omitempty"`
	Year    *int    `json:"year,omitempty"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 || r.PerPage > 100 {
		r.PerPage = 20
	}
	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
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

type CorrectionResponse struct {
	ID            string          `json:"correction_id"`
	UserID        string          `json:"user_id"`
	FullName      *string         `json:"full_name,omitempty"`
	Email         *string         `json:"email,omitempty"`
	Hours         decimal.Decimal `json:"hours"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Date          string          `json:"date"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	CorrectedByID *string         `json:"corrected_by_id"`
	CreatedAt     string          `json:"created_at"`
}

func NewCorrectionResponse(c Correction) CorrectionResponse {
	return CorrectionResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		FullName:      c.UserFullName,
		Email:         c.UserEmail,
		Hours:         c.Hours,
		HourlyRate:    c.HourlyRate,
		Amount:        c.Amount,
		Reason:        c.Reason,
		Date:          c.Date.Format("2006-01-02"),
		Month:         c.Month,
		Year:          c.Year,
		CorrectedByID: c.CorrectedByID,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

type ListResponse struct {
	Corrections []CorrectionResponse `json:"corrections"`
	Page        int                  `json:"page"`
	PerPage     int                  `json:"per_page"`
	TotalPages  int                  `json:"total_pages"`
	TotalCount  int64                `json:"total_count"`
}
