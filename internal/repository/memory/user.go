package memory

import (
	"context"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	now := time.Now()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id string) (user.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepo) filtered(keep func(user.User) bool) []user.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []user.User
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sortByTime(out, func(u user.User) time.Time { return u.CreatedAt }, false)
	return out
}

func (r *userRepo) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	all := r.filtered(func(u user.User) bool {
		if filter.Role != nil && u.Role != *filter.Role {
			return false
		}
		if filter.Status != nil && u.Status != *filter.Status {
			return false
		}
		return true
	})
	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r *userRepo) ListPresentToday(ctx context.Context) ([]user.User, error) {
	return r.filtered(func(u user.User) bool { return u.IsPresentToday }), nil
}

func (r *userRepo) ListOnHoliday(ctx context.Context) ([]user.User, error) {
	return r.filtered(func(u user.User) bool { return u.IsOnHoliday && u.CanWork() }), nil
}

func (r *userRepo) ListActive(ctx context.Context) ([]user.User, error) {
	return r.filtered(func(u user.User) bool { return u.CanWork() }), nil
}

func (r *userRepo) update(id string, fn func(u *user.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r *userRepo) UpdateHourlyRate(ctx context.Context, id string, rate decimal.Decimal, currency string) error {
	return r.update(id, func(u *user.User) {
		u.HourlyRate = rate
		u.Currency = currency
	})
}

func (r *userRepo) UpdateFlags(ctx context.Context, id string, isOnLeave, isOnHoliday bool) error {
	return r.update(id, func(u *user.User) {
		u.IsOnLeave = isOnLeave
		u.IsOnHoliday = isOnHoliday
	})
}

func (r *userRepo) UpdateLunchWindow(ctx context.Context, id string, start, end *int) error {
	return r.update(id, func(u *user.User) {
		u.LunchStart = start
		u.LunchEnd = end
	})
}

func (r *userRepo) SetPresentToday(ctx context.Context, id string, present bool) error {
	return r.update(id, func(u *user.User) { u.IsPresentToday = present })
}

type rateSnapshotRepo struct{ s *Store }

func (r *rateSnapshotRepo) Create(ctx context.Context, snapshot user.RateSnapshot) (user.RateSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot.ID = uuid.NewString()
	snapshot.CreatedAt = time.Now()
	r.s.rateSnapshots = append(r.s.rateSnapshots, snapshot)
	return snapshot, nil
}

func (r *rateSnapshotRepo) CloseOpen(ctx context.Context, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, snap := range r.s.rateSnapshots {
		if snap.UserID == userID && snap.EffectiveTo == nil {
			closedAt := at
			r.s.rateSnapshots[i].EffectiveTo = &closedAt
		}
	}
	return nil
}

func (r *rateSnapshotRepo) GetAsOf(ctx context.Context, userID string, at time.Time) (user.RateSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *user.RateSnapshot
	for i, snap := range r.s.rateSnapshots {
		if snap.UserID == userID && snap.CoversInstant(at) {
			if found == nil || snap.EffectiveFrom.After(found.EffectiveFrom) {
				found = &r.s.rateSnapshots[i]
			}
		}
	}
	if found == nil {
		return user.RateSnapshot{}, user.ErrRateSnapshotNotFound
	}
	return *found, nil
}

func (r *rateSnapshotRepo) ListByUser(ctx context.Context, userID string) ([]user.RateSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []user.RateSnapshot
	for _, snap := range r.s.rateSnapshots {
		if snap.UserID == userID {
			out = append(out, snap)
		}
	}
	sortByTime(out, func(s user.RateSnapshot) time.Time { return s.EffectiveFrom }, true)
	return out, nil
}
