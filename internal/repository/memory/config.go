package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type workingHoursRepo struct{ s *Store }

func workingHoursKey(cfg workinghours.Config) string {
	return strings.Join([]string{string(cfg.Role), cfg.Timezone, strconv.Itoa(cfg.DayOfWeek)}, "|")
}

func (r *workingHoursRepo) Upsert(ctx context.Context, cfg workinghours.Config) (workinghours.Config, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := workingHoursKey(cfg)
	now := time.Now()
	if existing, ok := r.s.workingHours[key]; ok {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	} else {
		cfg.ID = uuid.NewString()
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	r.s.workingHours[key] = cfg
	return cfg, nil
}

func (r *workingHoursRepo) collect(keep func(workinghours.Config) bool) []workinghours.Config {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []workinghours.Config{}
	for _, cfg := range r.s.workingHours {
		if keep(cfg) {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].DayOfWeek < out[j].DayOfWeek
	})
	return out
}

func (r *workingHoursRepo) List(ctx context.Context) ([]workinghours.Config, error) {
	return r.collect(func(workinghours.Config) bool { return true }), nil
}

func (r *workingHoursRepo) ListActiveByRole(ctx context.Context, role user.Role) ([]workinghours.Config, error) {
	return r.collect(func(c workinghours.Config) bool { return c.Role == role && c.IsActive }), nil
}

func (r *workingHoursRepo) GetActive(ctx context.Context, role user.Role, dayOfWeek int) (workinghours.Config, error) {
	found := r.collect(func(c workinghours.Config) bool {
		return c.Role == role && c.DayOfWeek == dayOfWeek && c.IsActive
	})
	if len(found) == 0 {
		return workinghours.Config{}, workinghours.ErrWorkingHoursNotFound
	}
	return found[0], nil
}

type rateRepo struct{ s *Store }

func (r *rateRepo) Upsert(ctx context.Context, setting rate.Setting) (rate.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	if existing, ok := r.s.rates[setting.Role]; ok {
		setting.ID = existing.ID
		setting.CreatedAt = existing.CreatedAt
	} else {
		setting.ID = uuid.NewString()
		setting.CreatedAt = now
	}
	setting.UpdatedAt = now
	r.s.rates[setting.Role] = setting
	return setting, nil
}

func (r *rateRepo) GetByRole(ctx context.Context, role user.Role) (rate.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	setting, ok := r.s.rates[role]
	if !ok {
		return rate.Setting{}, rate.ErrRateNotFound
	}
	return setting, nil
}

func (r *rateRepo) List(ctx context.Context) ([]rate.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []rate.Setting{}
	for _, setting := range r.s.rates {
		out = append(out, setting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

type deductionRepo struct{ s *Store }

func (r *deductionRepo) Create(ctx context.Context, d deduction.Statutory) (deduction.Statutory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.deductions {
		if existing.DeletedAt == nil && strings.EqualFold(existing.Name, d.Name) {
			return deduction.Statutory{}, deduction.ErrDeductionExists
		}
	}
	d.ID = uuid.NewString()
	now := time.Now()
	d.CreatedAt, d.UpdatedAt = now, now
	r.s.deductions[d.ID] = d
	return d, nil
}

func (r *deductionRepo) UpdatePercentage(ctx context.Context, id string, percentage decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.deductions[id]
	if !ok || d.DeletedAt != nil {
		return deduction.ErrDeductionNotFound
	}
	d.Percentage = percentage
	d.UpdatedAt = time.Now()
	r.s.deductions[id] = d
	return nil
}

func (r *deductionRepo) GetByNameForUpdate(ctx context.Context, name string) (deduction.Statutory, error) {
	return r.GetByName(ctx, name)
}

func (r *deductionRepo) GetByName(ctx context.Context, name string) (deduction.Statutory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.deductions {
		if d.DeletedAt == nil && strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return deduction.Statutory{}, deduction.ErrDeductionNotFound
}

func (r *deductionRepo) List(ctx context.Context) ([]deduction.Statutory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []deduction.Statutory{}
	for _, d := range r.s.deductions {
		if d.DeletedAt == nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *deductionRepo) Delete(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.deductions[id]
	if !ok || d.DeletedAt != nil {
		return deduction.ErrDeductionNotFound
	}
	deletedAt := at
	d.DeletedAt = &deletedAt
	d.UpdatedAt = at
	r.s.deductions[id] = d
	return nil
}

type deductionSnapshotRepo struct{ s *Store }

func (r *deductionSnapshotRepo) Create(ctx context.Context, snap deduction.Snapshot) (deduction.Snapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap.ID = uuid.NewString()
	snap.CreatedAt = time.Now()
	r.s.dedSnapshots = append(r.s.dedSnapshots, snap)
	return snap, nil
}

func (r *deductionSnapshotRepo) CloseOpen(ctx context.Context, deductionID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, snap := range r.s.dedSnapshots {
		if snap.DeductionID == deductionID && snap.EffectiveTo == nil {
			closedAt := at
			r.s.dedSnapshots[i].EffectiveTo = &closedAt
		}
	}
	return nil
}

func (r *deductionSnapshotRepo) GetAsOf(ctx context.Context, deductionID string, at time.Time) (deduction.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *deduction.Snapshot
	for i, snap := range r.s.dedSnapshots {
		if snap.DeductionID == deductionID && snap.CoversInstant(at) {
			if found == nil || snap.EffectiveFrom.After(found.EffectiveFrom) {
				found = &r.s.dedSnapshots[i]
			}
		}
	}
	if found == nil {
		return deduction.Snapshot{}, deduction.ErrSnapshotNotFound
	}
	return *found, nil
}

func (r *deductionSnapshotRepo) ListByDeduction(ctx context.Context, deductionID string) ([]deduction.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []deduction.Snapshot{}
	for _, snap := range r.s.dedSnapshots {
		if snap.DeductionID == deductionID {
			out = append(out, snap)
		}
	}
	sortByTime(out, func(s deduction.Snapshot) time.Time { return s.EffectiveFrom }, true)
	return out, nil
}

func (r *deductionSnapshotRepo) ListInForceAt(ctx context.Context, at time.Time) ([]deduction.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	latest := map[string]deduction.Snapshot{}
	for _, snap := range r.s.dedSnapshots {
		if !snap.CoversInstant(at) {
			continue
		}
		if cur, ok := latest[snap.DeductionID]; !ok || snap.EffectiveFrom.After(cur.EffectiveFrom) {
			latest[snap.DeductionID] = snap
		}
	}
	out := make([]deduction.Snapshot, 0, len(latest))
	for _, snap := range latest {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
