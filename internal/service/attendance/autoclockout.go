package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
)

// AutoClockOut implements attendance.AttendanceService.
//
// Only users flagged present today are visited. A user whose role has no
// active window for the local weekday is skipped. Past the end of the window
// the open session is closed at now and marked auto_closed. A present flag
// with no open session behind it is cleared; no session is ever created.
// Per-user failures are logged and counted, and do not stop the sweep.
func (a *AttendanceServiceImpl) AutoClockOut(ctx context.Context, now time.Time) (attendance.AutoClockOutResult, error) {
	var result attendance.AutoClockOutResult

	users, err := a.UserRepository.ListPresentToday(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list present users: %w", err)
	}

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++

		closed, err := a.autoClockOutUser(ctx, u, now)
		switch {
		case err != nil:
			result.Failed++
			slog.Error("auto clock-out failed", "user_id", u.ID, "error", err)
		case closed:
			result.Closed++
		default:
			result.Skipped++
		}
	}

	slog.Info("auto clock-out sweep finished",
		"checked", result.Checked,
		"closed", result.Closed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (a *AttendanceServiceImpl) autoClockOutUser(ctx context.Context, u user.User, now time.Time) (bool, error) {
	cfg, ok, err := a.windowFor(ctx, u.Role, now)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	_, end, err := cfg.BoundsOn(now)
	if err != nil {
		return false, err
	}
	if !now.After(end) {
		return false, nil
	}

	closed := false
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := a.AttendanceRepository.GetOpenByUser(ctx, u.ID, true)
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return a.UserRepository.SetPresentToday(ctx, u.ID, false)
		}
		if err != nil {
			return err
		}
		if now.Before(session.ClockInTime) {
			return nil
		}

		note := fmt.Sprintf("%s at %s (end of working hours %s)", attendance.AutoClockOutNote, now.In(cfg.Location()).Format("15:04"), cfg.EndTime)
		if session.Notes != nil && *session.Notes != "" {
			note = *session.Notes + "\n" + note
		}
		if _, err := a.closeSession(ctx, session, now, &note, true); err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if closed {
		slog.Info("session auto-closed", "user_id", u.ID, "end_time", cfg.EndTime)
	}
	return closed, nil
}

// windowFor picks the role's active window whose weekday matches now in the
// window's own timezone.
func (a *AttendanceServiceImpl) windowFor(ctx context.Context, role user.Role, now time.Time) (workinghours.Config, bool, error) {
	configs, err := a.WorkingHoursRepository.ListActiveByRole(ctx, role)
	if err != nil {
		return workinghours.Config{}, false, fmt.Errorf("failed to load working hours: %w", err)
	}
	for _, cfg := range configs {
		if cfg.DayOfWeek == workinghours.ISOWeekday(now.In(cfg.Location())) {
			return cfg, true, nil
		}
	}
	return workinghours.Config{}, false, nil
}
