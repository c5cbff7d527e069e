package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

const sessionColumns = `
	id, user_id, date, clock_in_time, lunch_in, lunch_out, clock_out_time,
	clock_in_type, status, total_hours, notes, photo_path, auto_closed,
	created_at, updated_at`

func scanSession(row rowScanner) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.ClockInTime, &s.LunchIn, &s.LunchOut, &s.ClockOutTime,
		&s.ClockInType, &s.Status, &s.TotalHours, &s.Notes, &s.PhotoPath, &s.AutoClosed,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository. The partial unique index
// on open sessions backs up the service-level check.
func (a *attendanceRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_sessions (
			user_id, date, clock_in_time, lunch_in, lunch_out, clock_out_time,
			clock_in_type, status, total_hours, notes, photo_path, auto_closed
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING ` + sessionColumns

	created, err := scanSession(q.QueryRow(ctx, query,
		session.UserID,
		session.Date,
		session.ClockInTime,
		session.LunchIn,
		session.LunchOut,
		session.ClockOutTime,
		session.ClockInType,
		session.Status,
		session.TotalHours,
		session.Notes,
		session.PhotoPath,
		session.AutoClosed,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Session{}, attendance.ErrActiveSessionExists
		}
		return attendance.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return created, nil
}

func (a *attendanceRepository) getOne(ctx context.Context, query string, args ...any) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	s, err := scanSession(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNotFound(err) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetOpenByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenByUser(ctx context.Context, userID string, forUpdate bool) (attendance.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND status = 'open'
		ORDER BY clock_in_time DESC
		LIMIT 1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	return a.getOne(ctx, query, userID)
}

// Close implements attendance.AttendanceRepository.
func (a *attendanceRepository) Close(ctx context.Context, session attendance.Session) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_sessions
		SET clock_out_time = $1,
			total_hours = $2,
			status = $3,
			notes = $4,
			auto_closed = $5,
			updated_at = NOW()
		WHERE id = $6`

	tag, err := q.Exec(ctx, query,
		session.ClockOutTime, session.TotalHours, session.Status, session.Notes, session.AutoClosed, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}
	return nil
}

// GetLatestAwaitingLunchIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLatestAwaitingLunchIn(ctx context.Context, userID string) (attendance.Session, error) {
	return a.getOne(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE user_id = $1
		  AND clock_out_time IS NOT NULL
		  AND lunch_in IS NULL
		ORDER BY clock_in_time DESC
		LIMIT 1
		FOR UPDATE`, userID)
}

// GetLatestAwaitingLunchOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLatestAwaitingLunchOut(ctx context.Context, userID string) (attendance.Session, error) {
	return a.getOne(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE user_id = $1
		  AND lunch_in IS NOT NULL
		  AND lunch_out IS NULL
		ORDER BY clock_in_time DESC
		LIMIT 1
		FOR UPDATE`, userID)
}

// UpdateLunch implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateLunch(ctx context.Context, session attendance.Session) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_sessions
		SET lunch_in = $1, lunch_out = $2, updated_at = NOW()
		WHERE id = $3`, session.LunchIn, session.LunchOut, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update lunch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}
	return nil
}

func (a *attendanceRepository) query(ctx context.Context, query string, args ...any) ([]attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []attendance.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// List implements attendance.AttendanceRepository. Newest first.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Session, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_sessions WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM attendance_sessions WHERE %s ORDER BY clock_in_time DESC LIMIT $%d OFFSET $%d`,
		sessionColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	sessions, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// ListClosedForPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListClosedForPeriod(ctx context.Context, userID string, month, year int) ([]attendance.Session, error) {
	return a.query(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE user_id = $1
		  AND status = 'closed'
		  AND EXTRACT(MONTH FROM date) = $2
		  AND EXTRACT(YEAR FROM date) = $3
		ORDER BY clock_in_time ASC`, userID, month, year)
}

// ListByDateRange implements attendance.AttendanceRepository. Both ends inclusive.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Session, error) {
	return a.query(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE user_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY clock_in_time ASC`, userID, start, end)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	return a.query(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE date = $1
		ORDER BY clock_in_time ASC`, date)
}
