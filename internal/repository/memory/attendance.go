package memory

import (
	"context"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepo struct{ s *Store }

func (r *attendanceRepo) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if session.Status == attendance.StatusOpen {
		for _, existing := range r.s.sessions {
			if existing.UserID == session.UserID && existing.Status == attendance.StatusOpen {
				return attendance.Session{}, attendance.ErrActiveSessionExists
			}
		}
	}
	session.ID = uuid.NewString()
	now := time.Now()
	session.CreatedAt, session.UpdatedAt = now, now
	r.s.sessions[session.ID] = session
	return session, nil
}

func (r *attendanceRepo) GetOpenByUser(ctx context.Context, userID string, forUpdate bool) (attendance.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, s := range r.s.sessions {
		if s.UserID == userID && s.Status == attendance.StatusOpen {
			return s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (r *attendanceRepo) save(session attendance.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[session.ID]; !ok {
		return attendance.ErrSessionNotFound
	}
	session.UpdatedAt = time.Now()
	r.s.sessions[session.ID] = session
	return nil
}

func (r *attendanceRepo) Close(ctx context.Context, session attendance.Session) error {
	session.Status = attendance.StatusClosed
	return r.save(session)
}

func (r *attendanceRepo) UpdateLunch(ctx context.Context, session attendance.Session) error {
	return r.save(session)
}

func (r *attendanceRepo) latest(keep func(attendance.Session) bool) (attendance.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *attendance.Session
	for _, s := range r.s.sessions {
		if !keep(s) {
			continue
		}
		if found == nil || s.ClockInTime.After(found.ClockInTime) {
			s := s
			found = &s
		}
	}
	if found == nil {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return *found, nil
}

func (r *attendanceRepo) GetLatestAwaitingLunchIn(ctx context.Context, userID string) (attendance.Session, error) {
	return r.latest(func(s attendance.Session) bool {
		return s.UserID == userID && s.ClockOutTime != nil && s.LunchIn == nil
	})
}

func (r *attendanceRepo) GetLatestAwaitingLunchOut(ctx context.Context, userID string) (attendance.Session, error) {
	return r.latest(func(s attendance.Session) bool {
		return s.UserID == userID && s.LunchIn != nil && s.LunchOut == nil
	})
}

func (r *attendanceRepo) collect(keep func(attendance.Session) bool, desc bool) []attendance.Session {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []attendance.Session{}
	for _, s := range r.s.sessions {
		if keep(s) {
			out = append(out, s)
		}
	}
	sortByTime(out, func(s attendance.Session) time.Time { return s.ClockInTime }, desc)
	return out
}

func (r *attendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Session, int64, error) {
	all := r.collect(func(s attendance.Session) bool {
		if filter.UserID != nil && s.UserID != *filter.UserID {
			return false
		}
		if filter.Status != nil && s.Status != *filter.Status {
			return false
		}
		if filter.StartDate != nil && s.Date.Before(*filter.StartDate) {
			return false
		}
		if filter.EndDate != nil && s.Date.After(*filter.EndDate) {
			return false
		}
		return true
	}, true)
	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r *attendanceRepo) ListClosedForPeriod(ctx context.Context, userID string, month, year int) ([]attendance.Session, error) {
	return r.collect(func(s attendance.Session) bool {
		return s.UserID == userID && s.Status == attendance.StatusClosed && sameMonth(s.Date, month, year)
	}, false), nil
}

func (r *attendanceRepo) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Session, error) {
	return r.collect(func(s attendance.Session) bool {
		return s.UserID == userID && !s.Date.Before(start) && !s.Date.After(end)
	}, false), nil
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]attendance.Session, error) {
	y, m, d := date.Date()
	return r.collect(func(s attendance.Session) bool {
		sy, sm, sd := s.Date.Date()
		return sy == y && sm == m && sd == d
	}, false), nil
}
