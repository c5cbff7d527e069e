package attendance

import (
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// CLOCK EVENT DTOs
// ========================================

// ClockInRequest carries an RFC3339 timestamp and an optional base64 photo,
// with or without a "data:image/png;base64," prefix.
type ClockInRequest struct {
	Timestamp   string `json:"timestamp"`
	ClockInType string `json:"clockin_type"`
	Photo       string `json:"photo,omitempty"`

	ParsedTimestamp time.Time `json:"-"`
}

// Validate checks the timestamp only. Missing timestamp and clock-in type are
// reported by the service as domain errors, after the leave check.
func (r *ClockInRequest) Validate() error {
	if r.ClockInType == "" {
		r.ClockInType = string(ClockInRegular)
	}
	if validator.IsEmpty(r.Timestamp) {
		return nil
	}
	t, ok := validator.IsValidDateTime(r.Timestamp)
	if !ok {
		return validator.ValidationErrors{{Field: "timestamp", Message: "timestamp must be RFC3339"}}
	}
	r.ParsedTimestamp = t
	return nil
}

type ClockOutRequest struct {
	Timestamp string  `json:"timestamp"`
	Notes     *string `json:"notes,omitempty"`

	ParsedTimestamp time.Time `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.Timestamp) {
		t, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp must be RFC3339"})
		}
		r.ParsedTimestamp = t
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "notes", Message: "notes must not exceed 1000 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LunchRequest struct {
	Timestamp string `json:"timestamp"`

	ParsedTimestamp time.Time `json:"-"`
}

func (r *LunchRequest) Validate() error {
	if validator.IsEmpty(r.Timestamp) {
		return nil
	}
	t, ok := validator.IsValidDateTime(r.Timestamp)
	if !ok {
		return validator.ValidationErrors{{Field: "timestamp", Message: "timestamp must be RFC3339"}}
	}
	r.ParsedTimestamp = t
	return nil
}

type SessionResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Date         string           `json:"date"`
	ClockInTime  string           `json:"clock_in_time"`
	LunchIn      *string          `json:"lunch_in"`
	LunchOut     *string          `json:"lunch_out"`
	ClockOutTime *string          `json:"clock_out_time"`
	ClockInType  string           `json:"clockin_type"`
	Status       string           `json:"status"`
	TotalHours   *decimal.Decimal `json:"total_hours"`
	Notes        *string          `json:"notes"`
	PhotoPath    *string          `json:"photo_path,omitempty"`
	AutoClosed   bool             `json:"auto_closed"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func NewSessionResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		Date:         s.Date.Format("2006-01-02"),
		ClockInTime:  s.ClockInTime.Format(time.RFC3339),
		LunchIn:      formatTimePtr(s.LunchIn),
		LunchOut:     formatTimePtr(s.LunchOut),
		ClockOutTime: formatTimePtr(s.ClockOutTime),
		ClockInType:  string(s.ClockInType),
		Status:       string(s.Status),
		TotalHours:   s.TotalHours,
		Notes:        s.Notes,
		PhotoPath:    s.PhotoPath,
		AutoClosed:   s.AutoClosed,
	}
}

// ========================================
// HISTORY & REPORT DTOs
// ========================================

type HistoryRequest struct {
	UserID    *string `json:"user_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusOpen), string(StatusClosed)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be open or closed"})
	}
	var start, end time.Time
	var okStart, okEnd bool
	if r.StartDate != nil {
		if start, okStart = validator.IsValidDate(*r.StartDate); !okStart {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if r.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*r.EndDate); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListSessionResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Sessions   []SessionResponse `json:"sessions"`
}

// TodaySummaryRow aggregates one user's sessions for the current local day.
type TodaySummaryRow struct {
	UserID              string          `json:"user_id"`
	FullName            string          `json:"full_name"`
	Email               string          `json:"email"`
	Role                string          `json:"user_role"`
	EarliestClockIn     string          `json:"earliest_clock_in"`
	LatestClockOut      *string         `json:"latest_clock_out"`
	TotalHoursWorked    decimal.Decimal `json:"total_hours_worked"`
	LatestSessionStatus string          `json:"latest_session_status"`
	LatestPhotoPath     *string         `json:"latest_clock_in_photo,omitempty"`
}

type ReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors
	var okStart, okEnd bool

	if r.Start, okStart = validator.IsValidDate(r.StartDate); !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	if r.End, okEnd = validator.IsValidDate(r.EndDate); !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if okStart && okEnd && r.End.Before(r.Start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DetailedReport struct {
	User    ReportUser    `json:"user"`
	Summary ReportSummary `json:"summary"`
	Rows    []ReportDay   `json:"rows"`
}

type ReportUser struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type ReportSummary struct {
	WorkHours decimal.Decimal `json:"work_hours"`
	Regular   decimal.Decimal `json:"regular"`
	Overtime  decimal.Decimal `json:"overtime"`
}

// ReportDay groups sessions under a display key such as "Fri 31/10".
type ReportDay struct {
	DateDisplay string          `json:"date_display"`
	DayTotal    decimal.Decimal `json:"day_total"`
	Sessions    []ReportSession `json:"sessions"`
}

type ReportSession struct {
	SessionID string          `json:"session_id"`
	Type      string          `json:"type"`
	ClockIn   string          `json:"clock_in"`
	ClockOut  *string         `json:"clock_out"`
	Hours     decimal.Decimal `json:"hours"`
	Status    string          `json:"status"`
}

type AutoClockOutResult struct {
	Checked int `json:"checked"`
	Closed  int `json:"closed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
