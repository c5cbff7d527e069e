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
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	user.UserRepository
	workinghours.WorkingHoursRepository
	photos attendance.PhotoStore
	loc    *time.Location
	now    func() time.Time
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, userID string, req attendance.ClockInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}
	if req.ParsedTimestamp.IsZero() {
		return attendance.SessionResponse{}, attendance.ErrMissingTimestamp
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}
	if u.IsOnLeave {
		return attendance.SessionResponse{}, attendance.ErrUserOnLeave
	}
	if !u.CanWork() {
		return attendance.SessionResponse{}, attendance.ErrUserInactive
	}
	clockInType := attendance.ClockInType(req.ClockInType)
	if !clockInType.IsValid() {
		return attendance.SessionResponse{}, attendance.ErrInvalidClockInType
	}

	// Cheap rejection before the photo work; the locked check below is authoritative.
	if _, err := a.AttendanceRepository.GetOpenByUser(ctx, userID, false); err == nil {
		return attendance.SessionResponse{}, attendance.ErrActiveSessionExists
	} else if !errors.Is(err, attendance.ErrSessionNotFound) {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}

	// Decode, compress and upload before the transaction. No row lock may be
	// held across object storage I/O.
	var photoPath string
	if req.Photo != "" && a.photos != nil {
		photoPath, err = a.photos.SaveClockInPhoto(ctx, userID, req.Photo, req.ParsedTimestamp)
		if err != nil {
			return attendance.SessionResponse{}, err
		}
	}

	var created attendance.Session
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Lock the user row so concurrent clock-ins for the same user queue here.
		if _, err := a.UserRepository.GetByIDForUpdate(ctx, userID); err != nil {
			return err
		}

		_, err := a.AttendanceRepository.GetOpenByUser(ctx, userID, true)
		if err == nil {
			return attendance.ErrActiveSessionExists
		}
		if !errors.Is(err, attendance.ErrSessionNotFound) {
			return fmt.Errorf("failed to check open session: %w", err)
		}

		session := attendance.Session{
			UserID:      userID,
			Date:        attendance.DateOf(req.ParsedTimestamp, a.loc),
			ClockInTime: req.ParsedTimestamp,
			ClockInType: clockInType,
			Status:      attendance.StatusOpen,
		}

		if photoPath != "" {
			session.PhotoPath = &photoPath
		}

		created, err = a.AttendanceRepository.Create(ctx, session)
		if err != nil {
			return err
		}

		if err := a.UserRepository.SetPresentToday(ctx, userID, true); err != nil {
			return fmt.Errorf("failed to mark user present: %w", err)
		}
		return nil
	})
	if err != nil {
		if photoPath != "" {
			if delErr := a.photos.Delete(ctx, photoPath); delErr != nil {
				slog.Warn("failed to remove orphaned clock-in photo", "path", photoPath, "error", delErr)
			}
		}
		return attendance.SessionResponse{}, err
	}

	slog.Info("clock-in recorded", "user_id", userID, "session_id", created.ID, "type", created.ClockInType)
	return attendance.NewSessionResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, userID string, req attendance.ClockOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}
	if req.ParsedTimestamp.IsZero() {
		return attendance.SessionResponse{}, attendance.ErrMissingTimestamp
	}

	var closed attendance.Session
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := a.AttendanceRepository.GetOpenByUser(ctx, userID, true)
		if err != nil {
			if errors.Is(err, attendance.ErrSessionNotFound) {
				return attendance.ErrNoActiveSession
			}
			return fmt.Errorf("failed to get open session: %w", err)
		}

		closed, err = a.closeSession(ctx, session, req.ParsedTimestamp, req.Notes, false)
		return err
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	slog.Info("clock-out recorded", "user_id", userID, "session_id", closed.ID, "total_hours", closed.TotalHours.String())
	return attendance.NewSessionResponse(closed), nil
}

// closeSession stamps the clock-out on an open session and clears the user's present
// flag. Must run inside a transaction holding the session lock.
func (a *AttendanceServiceImpl) closeSession(ctx context.Context, session attendance.Session, at time.Time, notes *string, auto bool) (attendance.Session, error) {
	if at.Before(session.ClockInTime) {
		return attendance.Session{}, attendance.ErrTimestampOrder
	}

	total := attendance.ElapsedHours(session.ClockInTime, at)
	session.ClockOutTime = &at
	session.TotalHours = &total
	session.Status = attendance.StatusClosed
	session.AutoClosed = auto
	if notes != nil {
		session.Notes = notes
	}

	if err := a.AttendanceRepository.Close(ctx, session); err != nil {
		return attendance.Session{}, fmt.Errorf("failed to close session: %w", err)
	}
	if err := a.UserRepository.SetPresentToday(ctx, session.UserID, false); err != nil {
		return attendance.Session{}, fmt.Errorf("failed to clear present flag: %w", err)
	}
	return session, nil
}

// LunchIn implements attendance.AttendanceService. It stamps the most recent
// clocked-out session that has no lunch yet.
func (a *AttendanceServiceImpl) LunchIn(ctx context.Context, userID string, req attendance.LunchRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}
	if req.ParsedTimestamp.IsZero() {
		return attendance.SessionResponse{}, attendance.ErrMissingTimestamp
	}

	var session attendance.Session
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, err = a.AttendanceRepository.GetLatestAwaitingLunchIn(ctx, userID)
		if err != nil {
			if errors.Is(err, attendance.ErrSessionNotFound) {
				return attendance.ErrNoSessionAvailable
			}
			return fmt.Errorf("failed to find session for lunch: %w", err)
		}
		if req.ParsedTimestamp.Before(session.ClockInTime) {
			return attendance.ErrTimestampOrder
		}

		ts := req.ParsedTimestamp
		session.LunchIn = &ts
		if err := a.AttendanceRepository.UpdateLunch(ctx, session); err != nil {
			return fmt.Errorf("failed to record lunch-in: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return attendance.NewSessionResponse(session), nil
}

// LunchOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LunchOut(ctx context.Context, userID string, req attendance.LunchRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}
	if req.ParsedTimestamp.IsZero() {
		return attendance.SessionResponse{}, attendance.ErrMissingTimestamp
	}

	var session attendance.Session
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, err = a.AttendanceRepository.GetLatestAwaitingLunchOut(ctx, userID)
		if err != nil {
			if errors.Is(err, attendance.ErrSessionNotFound) {
				return attendance.ErrNoLunchSession
			}
			return fmt.Errorf("failed to find lunch session: %w", err)
		}
		if req.ParsedTimestamp.Before(*session.LunchIn) {
			return attendance.ErrTimestampOrder
		}

		ts := req.ParsedTimestamp
		session.LunchOut = &ts
		if err := a.AttendanceRepository.UpdateLunch(ctx, session); err != nil {
			return fmt.Errorf("failed to record lunch-out: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return attendance.NewSessionResponse(session), nil
}

// GetCurrentSession implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetCurrentSession(ctx context.Context, userID string) (attendance.SessionResponse, error) {
	session, err := a.AttendanceRepository.GetOpenByUser(ctx, userID, false)
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrNoActiveSession
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	return attendance.NewSessionResponse(session), nil
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	workingHoursRepo workinghours.WorkingHoursRepository,
	photos attendance.PhotoStore,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                     tx,
		AttendanceRepository:   attendanceRepo,
		UserRepository:         userRepo,
		WorkingHoursRepository: workingHoursRepo,
		photos:                 photos,
		loc:                    loc,
		now:                    time.Now,
	}
}
