package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, req attendance.HistoryRequest) (attendance.ListSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListSessionResponse{}, err
	}

	filter := attendance.AttendanceFilter{
		UserID: req.UserID,
		Page:   req.Page,
		Limit:  req.Limit,
	}
	if req.Status != nil {
		status := attendance.Status(*req.Status)
		filter.Status = &status
	}
	if req.StartDate != nil {
		start, _ := time.Parse("2006-01-02", *req.StartDate)
		filter.StartDate = &start
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		filter.EndDate = &end
	}

	sessions, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListSessionResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := attendance.ListSessionResponse{
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		Sessions:   make([]attendance.SessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, attendance.NewSessionResponse(s))
	}
	return resp, nil
}

// GetTodaySummary implements attendance.AttendanceService. Open sessions count
// toward earliest clock-in but not toward hours worked.
func (a *AttendanceServiceImpl) GetTodaySummary(ctx context.Context) ([]attendance.TodaySummaryRow, error) {
	today := attendance.DateOf(a.now(), a.loc)

	sessions, err := a.AttendanceRepository.ListByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's sessions: %w", err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].ClockInTime.Before(sessions[j].ClockInTime)
	})

	rows := make(map[string]*attendance.TodaySummaryRow)
	order := []string{}
	for _, s := range sessions {
		row, ok := rows[s.UserID]
		if !ok {
			u, err := a.UserRepository.GetByID(ctx, s.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to load user %s: %w", s.UserID, err)
			}
			row = &attendance.TodaySummaryRow{
				UserID:           u.ID,
				FullName:         u.FullName,
				Email:            u.Email,
				Role:             string(u.Role),
				EarliestClockIn:  s.ClockInTime.Format(time.RFC3339),
				TotalHoursWorked: decimal.Zero,
			}
			rows[s.UserID] = row
			order = append(order, s.UserID)
		}

		if s.ClockOutTime != nil {
			row.TotalHoursWorked = row.TotalHoursWorked.Add(attendance.ElapsedHours(s.ClockInTime, *s.ClockOutTime))
			out := s.ClockOutTime.Format(time.RFC3339)
			row.LatestClockOut = &out
		} else {
			row.LatestClockOut = nil
		}
		// Sessions are in clock-in order, so the last one seen is the latest.
		row.LatestSessionStatus = string(s.Status)
		row.LatestPhotoPath = s.PhotoPath
	}

	result := make([]attendance.TodaySummaryRow, 0, len(order))
	for _, id := range order {
		result = append(result, *rows[id])
	}
	return result, nil
}

// GetDetailedReport implements attendance.AttendanceService. Days are listed
// newest first; sessions within a day oldest first.
func (a *AttendanceServiceImpl) GetDetailedReport(ctx context.Context, userID string, req attendance.ReportRequest) (attendance.DetailedReport, error) {
	if err := req.Validate(); err != nil {
		return attendance.DetailedReport{}, err
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.DetailedReport{}, err
	}

	sessions, err := a.AttendanceRepository.ListByDateRange(ctx, userID, req.Start, req.End)
	if err != nil {
		return attendance.DetailedReport{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.After(sessions[j].Date)
		}
		return sessions[i].ClockInTime.Before(sessions[j].ClockInTime)
	})

	report := attendance.DetailedReport{
		User: attendance.ReportUser{ID: u.ID, FullName: u.FullName},
		Summary: attendance.ReportSummary{
			WorkHours: decimal.Zero,
			Regular:   decimal.Zero,
			Overtime:  decimal.Zero,
		},
		Rows: []attendance.ReportDay{},
	}

	dayIndex := make(map[string]int)
	for _, s := range sessions {
		hours := decimal.Zero
		if s.TotalHours != nil {
			hours = *s.TotalHours
		}

		report.Summary.WorkHours = report.Summary.WorkHours.Add(hours)
		switch s.ClockInType {
		case attendance.ClockInOvertime:
			report.Summary.Overtime = report.Summary.Overtime.Add(hours)
		default:
			report.Summary.Regular = report.Summary.Regular.Add(hours)
		}

		key := s.Date.Format("Mon 02/01")
		idx, ok := dayIndex[key]
		if !ok {
			report.Rows = append(report.Rows, attendance.ReportDay{
				DateDisplay: key,
				DayTotal:    decimal.Zero,
				Sessions:    []attendance.ReportSession{},
			})
			idx = len(report.Rows) - 1
			dayIndex[key] = idx
		}

		day := &report.Rows[idx]
		day.DayTotal = day.DayTotal.Add(hours)
		day.Sessions = append(day.Sessions, attendance.ReportSession{
			SessionID: s.ID,
			Type:      displayType(s.ClockInType),
			ClockIn:   s.ClockInTime.In(a.loc).Format(time.RFC3339),
			ClockOut:  formatLocal(s.ClockOutTime, a.loc),
			Hours:     hours,
			Status:    string(s.Status),
		})
	}

	return report, nil
}

func displayType(t attendance.ClockInType) string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatLocal(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}
