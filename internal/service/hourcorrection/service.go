package hourcorrection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/shopspring/decimal"
)

// holidayLunch is taken off a holiday's window before crediting hours.
const holidayLunch = time.Hour

type CorrectionServiceImpl struct {
	hourcorrection.CorrectionRepository
	user.UserRepository
	workinghours.WorkingHoursRepository
	loc *time.Location
	now func() time.Time
}

// Record implements hourcorrection.CorrectionService. Month, year and date
// default to today; the hourly rate is frozen from the user's current rate
// unless given.
func (s *CorrectionServiceImpl) Record(ctx context.Context, correctedBy *string, req hourcorrection.RecordRequest) (hourcorrection.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return hourcorrection.CorrectionResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return hourcorrection.CorrectionResponse{}, err
	}

	now := s.now().In(s.loc)
	c := hourcorrection.Correction{
		UserID:        u.ID,
		Date:          attendance.DateOf(now, s.loc),
		Month:         int(now.Month()),
		Year:          now.Year(),
		Hours:         req.Hours,
		HourlyRate:    u.HourlyRate,
		Reason:        strings.TrimSpace(req.Reason),
		CorrectedByID: correctedBy,
	}
	if req.ParsedDate != nil {
		c.Date = *req.ParsedDate
	}
	if req.Month != nil {
		c.Month = *req.Month
	}
	if req.Year != nil {
		c.Year = *req.Year
	}
	if req.HourlyRate != nil {
		c.HourlyRate = *req.HourlyRate
	}
	c.Recalculate()

	created, err := s.CorrectionRepository.Create(ctx, c)
	if err != nil {
		return hourcorrection.CorrectionResponse{}, fmt.Errorf("failed to record hour correction: %w", err)
	}

	slog.Info("hour correction recorded",
		"correction_id", created.ID,
		"user_id", created.UserID,
		"hours", created.Hours.String(),
		"amount", created.Amount.String(),
	)
	return hourcorrection.NewCorrectionResponse(created), nil
}

// UpdateHours implements hourcorrection.CorrectionService. The frozen rate is
// kept; the amount follows the new hours.
func (s *CorrectionServiceImpl) UpdateHours(ctx context.Context, id string, req hourcorrection.UpdateHoursRequest) (hourcorrection.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return hourcorrection.CorrectionResponse{}, err
	}

	c, err := s.CorrectionRepository.GetByID(ctx, id)
	if err != nil {
		return hourcorrection.CorrectionResponse{}, err
	}

	c.Hours = req.Hours
	if req.Reason != nil {
		c.Reason = strings.TrimSpace(*req.Reason)
	}
	c.Recalculate()

	updated, err := s.CorrectionRepository.Update(ctx, c)
	if err != nil {
		return hourcorrection.CorrectionResponse{}, fmt.Errorf("failed to update hour correction: %w", err)
	}

	slog.Info("hour correction updated", "correction_id", updated.ID, "hours", updated.Hours.String())
	return hourcorrection.NewCorrectionResponse(updated), nil
}

// List implements hourcorrection.CorrectionService.
func (s *CorrectionServiceImpl) List(ctx context.Context, req hourcorrection.ListRequest) (hourcorrection.ListResponse, error) {
	if err := req.Validate(); err != nil {
		return hourcorrection.ListResponse{}, err
	}

	rows, total, err := s.CorrectionRepository.List(ctx, hourcorrection.CorrectionFilter{
		UserID: req.UserID,
		Month:  req.Month,
		Year:   req.Year,
		Page:   req.Page,
		Limit:  req.PerPage,
	})
	if err != nil {
		return hourcorrection.ListResponse{}, fmt.Errorf("failed to list hour corrections: %w", err)
	}

	resp := hourcorrection.ListResponse{
		Corrections: make([]hourcorrection.CorrectionResponse, 0, len(rows)),
		Page:        req.Page,
		PerPage:     req.PerPage,
		TotalCount:  total,
		TotalPages:  int((total + int64(req.PerPage) - 1) / int64(req.PerPage)),
	}
	for _, c := range rows {
		resp.Corrections = append(resp.Corrections, hourcorrection.NewCorrectionResponse(c))
	}
	return resp, nil
}

// AllocateHolidayHours implements hourcorrection.CorrectionService. Users
// already credited today are skipped, so the job may run more than once a day.
func (s *CorrectionServiceImpl) AllocateHolidayHours(ctx context.Context, now time.Time) (int, error) {
	users, err := s.UserRepository.ListOnHoliday(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users on holiday: %w", err)
	}

	today := attendance.DateOf(now, s.loc)
	allocated := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return allocated, err
		}

		hours, ok, err := s.holidayHours(ctx, u.Role, now)
		if err != nil {
			slog.Error("holiday allocation failed", "user_id", u.ID, "error", err)
			continue
		}
		if !ok {
			slog.Warn("no working hours for holiday allocation", "user_id", u.ID, "role", u.Role)
			continue
		}

		exists, err := s.CorrectionRepository.ExistsForReasonOnDate(ctx, u.ID, hourcorrection.HolidayAllocationReason, today.Format("2006-01-02"))
		if err != nil {
			slog.Error("holiday allocation failed", "user_id", u.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		local := now.In(s.loc)
		c := hourcorrection.Correction{
			UserID:     u.ID,
			Date:       today,
			Month:      int(local.Month()),
			Year:       local.Year(),
			Hours:      hours,
			HourlyRate: u.HourlyRate,
			Reason:     hourcorrection.HolidayAllocationReason,
		}
		c.Recalculate()
		if _, err := s.CorrectionRepository.Create(ctx, c); err != nil {
			slog.Error("holiday allocation failed", "user_id", u.ID, "error", err)
			continue
		}
		allocated++
	}

	slog.Info("holiday hours allocated", "candidates", len(users), "allocated", allocated)
	return allocated, nil
}

// holidayHours is the role's window for the weekday of now, less lunch.
func (s *CorrectionServiceImpl) holidayHours(ctx context.Context, role user.Role, now time.Time) (decimal.Decimal, bool, error) {
	configs, err := s.WorkingHoursRepository.ListActiveByRole(ctx, role)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to load working hours: %w", err)
	}
	for _, cfg := range configs {
		if cfg.DayOfWeek != workinghours.ISOWeekday(now.In(cfg.Location())) {
			continue
		}
		window, err := cfg.Duration()
		if err != nil {
			return decimal.Zero, false, err
		}
		worked := window - holidayLunch
		if worked <= 0 {
			return decimal.Zero, false, nil
		}
		return decimal.NewFromFloat(worked.Hours()).Round(2), true, nil
	}
	return decimal.Zero, false, nil
}

func NewCorrectionService(
	correctionRepo hourcorrection.CorrectionRepository,
	userRepo user.UserRepository,
	workingHoursRepo workinghours.WorkingHoursRepository,
	loc *time.Location,
) hourcorrection.CorrectionService {
	if loc == nil {
		loc = time.UTC
	}
	return &CorrectionServiceImpl{
		CorrectionRepository:   correctionRepo,
		UserRepository:         userRepo,
		WorkingHoursRepository: workingHoursRepo,
		loc:                    loc,
		now:                    time.Now,
	}
}
