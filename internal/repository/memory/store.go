// Package memory implements the repository interfaces on in-process maps.
// Transactions are serialized with a single mutex. When the transaction
// function fails the store is restored to the state it had on entry.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	users         map[string]user.User
	rateSnapshots []user.RateSnapshot
	sessions      map[string]attendance.Session
	workingHours  map[string]workinghours.Config
	rates         map[user.Role]rate.Setting
	deductions    map[string]deduction.Statutory
	dedSnapshots  []deduction.Snapshot
	advances      []advance.Payment
	overtimes     []overtime.Allowance
	corrections   map[string]hourcorrection.Correction
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]user.User),
		sessions:     make(map[string]attendance.Session),
		workingHours: make(map[string]workinghours.Config),
		rates:        make(map[user.Role]rate.Setting),
		deductions:   make(map[string]deduction.Statutory),
		corrections:  make(map[string]hourcorrection.Correction),
	}
}

type txMarker struct{}

func (s *Store) Transactor() database.Transactor { return s }

// WithinTransaction implements database.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	saved := s.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

type storeState struct {
	users         map[string]user.User
	rateSnapshots []user.RateSnapshot
	sessions      map[string]attendance.Session
	workingHours  map[string]workinghours.Config
	rates         map[user.Role]rate.Setting
	deductions    map[string]deduction.Statutory
	dedSnapshots  []deduction.Snapshot
	advances      []advance.Payment
	overtimes     []overtime.Allowance
	corrections   map[string]hourcorrection.Correction
}

// snapshot copies every table. Entities are stored by value, so copying the
// containers is enough to isolate them from later writes.
func (s *Store) snapshot() storeState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return storeState{
		users:         maps.Clone(s.users),
		rateSnapshots: slices.Clone(s.rateSnapshots),
		sessions:      maps.Clone(s.sessions),
		workingHours:  maps.Clone(s.workingHours),
		rates:         maps.Clone(s.rates),
		deductions:    maps.Clone(s.deductions),
		dedSnapshots:  slices.Clone(s.dedSnapshots),
		advances:      slices.Clone(s.advances),
		overtimes:     slices.Clone(s.overtimes),
		corrections:   maps.Clone(s.corrections),
	}
}

func (s *Store) restore(st storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = st.users
	s.rateSnapshots = st.rateSnapshots
	s.sessions = st.sessions
	s.workingHours = st.workingHours
	s.rates = st.rates
	s.deductions = st.deductions
	s.dedSnapshots = st.dedSnapshots
	s.advances = st.advances
	s.overtimes = st.overtimes
	s.corrections = st.corrections
}

func (s *Store) Users() user.UserRepository                        { return &userRepo{s} }
func (s *Store) RateSnapshots() user.RateSnapshotRepository        { return &rateSnapshotRepo{s} }
func (s *Store) Attendance() attendance.AttendanceRepository       { return &attendanceRepo{s} }
func (s *Store) WorkingHours() workinghours.WorkingHoursRepository { return &workingHoursRepo{s} }
func (s *Store) Rates() rate.RateRepository                        { return &rateRepo{s} }
func (s *Store) Deductions() deduction.DeductionRepository         { return &deductionRepo{s} }
func (s *Store) DeductionSnapshots() deduction.SnapshotRepository  { return &deductionSnapshotRepo{s} }
func (s *Store) Advances() advance.AdvanceRepository               { return &advanceRepo{s} }
func (s *Store) Overtime() overtime.OvertimeRepository             { return &overtimeRepo{s} }
func (s *Store) Corrections() hourcorrection.CorrectionRepository  { return &correctionRepo{s} }

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sameMonth(t time.Time, month, year int) bool {
	return int(t.Month()) == month && t.Year() == year
}

func sortByTime[T any](items []T, key func(T) time.Time, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return key(items[i]).After(key(items[j]))
		}
		return key(items[i]).Before(key(items[j]))
	})
}
