package user

import (
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string          `json:"id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Status         string          `json:"status"`
	IsActive       bool            `json:"is_active"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	Currency       string          `json:"currency"`
	LunchStart     *int            `json:"lunch_start,omitempty"`
	LunchEnd       *int            `json:"lunch_end,omitempty"`
	IsPresentToday bool            `json:"is_present_today"`
	IsOnLeave      bool            `json:"is_on_leave"`
	IsOnHoliday    bool            `json:"is_on_holiday"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           string(u.Role),
		Status:         string(u.Status),
		IsActive:       u.IsActive,
		HourlyRate:     u.HourlyRate,
		Currency:       u.Currency,
		LunchStart:     u.LunchStart,
		LunchEnd:       u.LunchEnd,
		IsPresentToday: u.IsPresentToday,
		IsOnLeave:      u.IsOnLeave,
		IsOnHoliday:    u.IsOnHoliday,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

type ListUserRequest struct {
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (r *ListUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "invalid role"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{
		string(StatusActive), string(StatusSuspended), string(StatusPending), string(StatusBlocked),
	}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "invalid status"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Users      []UserResponse `json:"users"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	FullName   string           `json:"full_name"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	Role       string           `json:"role"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	Currency   *string          `json:"currency,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must be non-negative",
		})
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency must be a 3-letter code",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateHourlyRateRequest struct {
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Currency   *string         `json:"currency,omitempty"`
}

func (r *UpdateHourlyRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "hourly_rate must be non-negative"})
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "currency must be a 3-letter code"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateFlagsRequest struct {
	IsOnLeave   *bool `json:"is_on_leave,omitempty"`
	IsOnHoliday *bool `json:"is_on_holiday,omitempty"`
}

func (r *UpdateFlagsRequest) Validate() error {
	if r.IsOnLeave == nil && r.IsOnHoliday == nil {
		return validator.ValidationErrors{{Field: "flags", Message: "at least one of is_on_leave, is_on_holiday is required"}}
	}
	return nil
}

// UpdateLunchWindowRequest carries HHMM integers; both nil clears the window.
type UpdateLunchWindowRequest struct {
	LunchStart *int `json:"lunch_start"`
	LunchEnd   *int `json:"lunch_end"`
}

func (r *UpdateLunchWindowRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.LunchStart == nil) != (r.LunchEnd == nil) {
		errs = append(errs, validator.ValidationError{Field: "lunch", Message: "lunch_start and lunch_end must be set together"})
	}
	if r.LunchStart != nil && !validator.IsValidHHMM(*r.LunchStart) {
		errs = append(errs, validator.ValidationError{Field: "lunch_start", Message: "lunch_start must be HHMM between 0000 and 2359"})
	}
	if r.LunchEnd != nil && !validator.IsValidHHMM(*r.LunchEnd) {
		errs = append(errs, validator.ValidationError{Field: "lunch_end", Message: "lunch_end must be HHMM between 0000 and 2359"})
	}
	if len(errs) == 0 && r.LunchStart != nil && *r.LunchEnd <= *r.LunchStart {
		errs = append(errs, validator.ValidationError{Field: "lunch_end", Message: "lunch_end must be after lunch_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateSnapshotResponse struct {
	ID            string          `json:"id"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	Currency      string          `json:"currency"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to"`
}

func NewRateSnapshotResponse(s RateSnapshot) RateSnapshotResponse {
	resp := RateSnapshotResponse{
		ID:            s.ID,
		HourlyRate:    s.HourlyRate,
		Currency:      s.Currency,
		EffectiveFrom: s.EffectiveFrom.Format(time.RFC3339),
	}
	if s.EffectiveTo != nil {
		to := s.EffectiveTo.Format(time.RFC3339)
		resp.EffectiveTo = &to
	}
	return resp
}
