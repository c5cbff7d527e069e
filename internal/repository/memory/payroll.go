package memory

import (
	"context"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type advanceRepo struct{ s *Store }

func (r *advanceRepo) Create(ctx context.Context, p advance.Payment) (advance.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	if p.ApprovedByID != nil {
		if approver, ok := r.s.users[*p.ApprovedByID]; ok {
			name := approver.FullName
			p.ApprovedByName = &name
		}
	}
	r.s.advances = append(r.s.advances, p)
	return p, nil
}

func (r *advanceRepo) ListByUser(ctx context.Context, userID string, month, year *int) ([]advance.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []advance.Payment{}
	for _, p := range r.s.advances {
		if p.UserID != userID {
			continue
		}
		if month != nil && p.Month != *month {
			continue
		}
		if year != nil && p.Year != *year {
			continue
		}
		out = append(out, p)
	}
	sortByTime(out, func(p advance.Payment) time.Time { return p.CreatedAt }, true)
	return out, nil
}

func (r *advanceRepo) TotalForPeriod(ctx context.Context, userID string, month, year int) (decimal.Decimal, error) {
	payments, err := r.ListByUser(ctx, userID, &month, &year)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}

type overtimeRepo struct{ s *Store }

func (r *overtimeRepo) Create(ctx context.Context, a overtime.Allowance) (overtime.Allowance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	r.s.overtimes = append(r.s.overtimes, a)
	return a, nil
}

func (r *overtimeRepo) ListByUser(ctx context.Context, userID string, month, year int) ([]overtime.Allowance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []overtime.Allowance{}
	for _, a := range r.s.overtimes {
		if a.UserID == userID && a.Month == month && a.Year == year {
			out = append(out, a)
		}
	}
	sortByTime(out, func(a overtime.Allowance) time.Time { return a.Date }, false)
	return out, nil
}

func (r *overtimeRepo) TotalForPeriod(ctx context.Context, userID string, month, year int) (decimal.Decimal, error) {
	allowances, err := r.ListByUser(ctx, userID, month, year)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range allowances {
		total = total.Add(a.Amount)
	}
	return total, nil
}

type correctionRepo struct{ s *Store }

func (r *correctionRepo) withUser(c hourcorrection.Correction) hourcorrection.Correction {
	if u, ok := r.s.users[c.UserID]; ok {
		name, email := u.FullName, u.Email
		c.UserFullName, c.UserEmail = &name, &email
	}
	return c
}

func (r *correctionRepo) Create(ctx context.Context, c hourcorrection.Correction) (hourcorrection.Correction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.Recalculate()
	c.ID = uuid.NewString()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	c.UserFullName, c.UserEmail = nil, nil
	r.s.corrections[c.ID] = c
	return r.withUser(c), nil
}

func (r *correctionRepo) GetByID(ctx context.Context, id string) (hourcorrection.Correction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.corrections[id]
	if !ok {
		return hourcorrection.Correction{}, hourcorrection.ErrCorrectionNotFound
	}
	return r.withUser(c), nil
}

func (r *correctionRepo) Update(ctx context.Context, c hourcorrection.Correction) (hourcorrection.Correction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.Recalculate()
	existing, ok := r.s.corrections[c.ID]
	if !ok {
		return hourcorrection.Correction{}, hourcorrection.ErrCorrectionNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	c.UserFullName, c.UserEmail = nil, nil
	r.s.corrections[c.ID] = c
	return r.withUser(c), nil
}

func (r *correctionRepo) collect(keep func(hourcorrection.Correction) bool) []hourcorrection.Correction {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []hourcorrection.Correction{}
	for _, c := range r.s.corrections {
		if keep(c) {
			out = append(out, r.withUser(c))
		}
	}
	sortByTime(out, func(c hourcorrection.Correction) time.Time { return c.CreatedAt }, true)
	return out
}

func (r *correctionRepo) List(ctx context.Context, filter hourcorrection.CorrectionFilter) ([]hourcorrection.Correction, int64, error) {
	all := r.collect(func(c hourcorrection.Correction) bool {
		if filter.UserID != nil && c.UserID != *filter.UserID {
			return false
		}
		if filter.Month != nil && c.Month != *filter.Month {
			return false
		}
		if filter.Year != nil && c.Year != *filter.Year {
			return false
		}
		return true
	})
	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r *correctionRepo) ListByUserPeriod(ctx context.Context, userID string, month, year int) ([]hourcorrection.Correction, error) {
	out := r.collect(func(c hourcorrection.Correction) bool {
		return c.UserID == userID && c.Month == month && c.Year == year
	})
	sortByTime(out, func(c hourcorrection.Correction) time.Time { return c.Date }, false)
	return out, nil
}

func (r *correctionRepo) ExistsForReasonOnDate(ctx context.Context, userID, reason string, date string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.corrections {
		if c.UserID == userID && c.Reason == reason && c.Date.Format("2006-01-02") == date {
			return true, nil
		}
	}
	return false, nil
}
