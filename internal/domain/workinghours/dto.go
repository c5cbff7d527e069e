package workinghours

import (
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
)

type UpsertRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	Role      string `json:"user_role"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (r *UpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Timezone == "" {
		r.Timezone = DefaultTimezone
	}
	if !validator.IsValidDayOfWeek(r.DayOfWeek) {
		errs = append(errs, validator.ValidationError{Field: "day_of_week", Message: "day_of_week must be between 1 (Monday) and 7 (Sunday)"})
	}
	if !user.Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "user_role", Message: "invalid role"})
	}
	start, okStart := validator.IsValidClockTime(r.StartTime)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM"})
	}
	end, okEnd := validator.IsValidClockTime(r.EndTime)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM"})
	}
	if okStart && okEnd && !end.After(start) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be after start_time"})
	}
	if !validator.IsValidTimezone(r.Timezone) {
		errs = append(errs, validator.ValidationError{Field: "timezone", Message: "unknown timezone"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConfigResponse struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	Role      string `json:"user_role"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Timezone  string `json:"timezone"`
	IsActive  bool   `json:"is_active"`
}

func NewConfigResponse(c Config) ConfigResponse {
	return ConfigResponse{
		ID:        c.ID,
		DayOfWeek: c.DayOfWeek,
		Role:      string(c.Role),
		Start:     c.StartTime,
		End:       c.EndTime,
		Timezone:  c.Timezone,
		IsActive:  c.IsActive,
	}
}
