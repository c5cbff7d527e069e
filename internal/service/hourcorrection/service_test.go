package hourcorrection

import (
	"context"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2025-03-03 12:00 UTC.
var testNow = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store *memory.Store
	svc   *CorrectionServiceImpl
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := memory.NewStore()
	svc := NewCorrectionService(store.Corrections(), store.Users(), store.WorkingHours(), time.UTC).(*CorrectionServiceImpl)
	svc.now = func() time.Time { return testNow }
	return testEnv{store: store, svc: svc}
}

func (e testEnv) createUser(t *testing.T, email string, role user.Role, rate int64, mutate func(u *user.User)) user.User {
	t.Helper()
	u := user.User{
		FullName:   "Staff " + email,
		Email:      email,
		Role:       role,
		Status:     user.StatusActive,
		IsActive:   true,
		HourlyRate: decimal.NewFromInt(rate),
		Currency:   user.DefaultCurrency,
	}
	if mutate != nil {
		mutate(&u)
	}
	created, err := e.store.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func TestCorrectionService_Record_Defaults(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "a@example.com", user.RoleOffice, 150, nil)
	admin := "admin-id"

	// Act
	resp, err := env.svc.Record(ctx, &admin, hourcorrection.RecordRequest{
		UserID: u.ID,
		Hours:  decimal.NewFromFloat(2.5),
		Reason: "  forgot to clock in ",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, "2025-03-03", resp.Date)
	assert.Equal(t, "forgot to clock in", resp.Reason)
	assert.True(t, decimal.NewFromInt(150).Equal(resp.HourlyRate))
	assert.True(t, decimal.NewFromInt(375).Equal(resp.Amount))
	require.NotNil(t, resp.FullName)
	assert.Equal(t, u.FullName, *resp.FullName)
	assert.Equal(t, &admin, resp.CorrectedByID)
}

func TestCorrectionService_Record_SignedHoursAndOverrides(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "a@example.com", user.RoleOffice, 150, nil)

	tests := []struct {
		name       string
		hours      decimal.Decimal
		rate       *decimal.Decimal
		wantAmount decimal.Decimal
	}{
		{"negative", decimal.NewFromInt(-2), nil, decimal.NewFromInt(-300)},
		{"zero", decimal.Zero, nil, decimal.Zero},
		{"explicit rate", decimal.NewFromInt(3), ptr(decimal.NewFromInt(200)), decimal.NewFromInt(600)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year, date := 1, 2025, "2025-01-31"
			resp, err := env.svc.Record(ctx, nil, hourcorrection.RecordRequest{
				UserID:     u.ID,
				Hours:      tt.hours,
				Reason:     tt.name,
				Month:      &month,
				Year:       &year,
				Date:       &date,
				HourlyRate: tt.rate,
			})
			require.NoError(t, err)
			assert.True(t, tt.wantAmount.Equal(resp.Amount), "got %s", resp.Amount)
			assert.Equal(t, 1, resp.Month)
			assert.Equal(t, date, resp.Date)
		})
	}
}

func TestCorrectionService_Record_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Record(ctx, nil, hourcorrection.RecordRequest{UserID: "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", Hours: decimal.NewFromInt(1), Reason: "x"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = env.svc.Record(ctx, nil, hourcorrection.RecordRequest{UserID: "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", Hours: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestCorrectionService_UpdateHours_RecomputesWithFrozenRate(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "a@example.com", user.RoleOffice, 100, nil)
	created, err := env.svc.Record(ctx, nil, hourcorrection.RecordRequest{UserID: u.ID, Hours: decimal.NewFromInt(2), Reason: "late entry"})
	require.NoError(t, err)

	// The user's live rate changes after the correction was written.
	require.NoError(t, env.store.Users().UpdateHourlyRate(ctx, u.ID, decimal.NewFromInt(500), user.DefaultCurrency))

	// Act
	reason := "late entry, verified"
	updated, err := env.svc.UpdateHours(ctx, created.ID, hourcorrection.UpdateHoursRequest{Hours: decimal.NewFromInt(4), Reason: &reason})

	// Assert
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(updated.HourlyRate))
	assert.True(t, decimal.NewFromInt(400).Equal(updated.Amount))
	assert.Equal(t, reason, updated.Reason)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = env.svc.UpdateHours(ctx, "missing", hourcorrection.UpdateHoursRequest{Hours: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, hourcorrection.ErrCorrectionNotFound)
}

func TestCorrectionService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a@example.com", user.RoleOffice, 100, nil)
	b := env.createUser(t, "b@example.com", user.RoleOffice, 100, nil)

	for i := 0; i < 3; i++ {
		_, err := env.svc.Record(ctx, nil, hourcorrection.RecordRequest{UserID: a.ID, Hours: decimal.NewFromInt(1), Reason: "a"})
		require.NoError(t, err)
	}
	_, err := env.svc.Record(ctx, nil, hourcorrection.RecordRequest{UserID: b.ID, Hours: decimal.NewFromInt(1), Reason: "b"})
	require.NoError(t, err)

	page, err := env.svc.List(ctx, hourcorrection.ListRequest{UserID: &a.ID, Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Corrections, 2)

	all, err := env.svc.List(ctx, hourcorrection.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, all.PerPage)
	assert.Equal(t, int64(4), all.TotalCount)
}

func TestCorrectionService_AllocateHolidayHours(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	ctx := context.Background()
	onHoliday := func(u *user.User) { u.IsOnHoliday = true }

	teacher := env.createUser(t, "t@example.com", user.RoleTeaching, 200, onHoliday)
	env.createUser(t, "o@example.com", user.RoleOffice, 200, onHoliday) // no window configured
	env.createUser(t, "w@example.com", user.RoleTeaching, 200, nil)     // not on holiday
	env.createUser(t, "s@example.com", user.RoleTeaching, 200, func(u *user.User) {
		u.IsOnHoliday = true
		u.Status = user.StatusSuspended
	})

	_, err := env.store.WorkingHours().Upsert(ctx, workinghours.Config{
		DayOfWeek: 1,
		Role:      user.RoleTeaching,
		StartTime: "07:30",
		EndTime:   "16:45",
		Timezone:  "UTC",
		IsActive:  true,
	})
	require.NoError(t, err)

	// Act
	n, err := env.svc.AllocateHolidayHours(ctx, testNow)
	require.NoError(t, err)
	again, err := env.svc.AllocateHolidayHours(ctx, testNow.Add(time.Hour))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, again)

	list, err := env.svc.List(ctx, hourcorrection.ListRequest{UserID: &teacher.ID})
	require.NoError(t, err)
	require.Len(t, list.Corrections, 1)
	c := list.Corrections[0]
	assert.Equal(t, hourcorrection.HolidayAllocationReason, c.Reason)
	assert.True(t, decimal.NewFromFloat(8.25).Equal(c.Hours), "got %s", c.Hours)
	assert.True(t, decimal.NewFromInt(1650).Equal(c.Amount))
	assert.Equal(t, "2025-03-03", c.Date)
}

func TestCorrectionService_AllocateHolidayHours_NoWindowOnWeekend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "t@example.com", user.RoleTeaching, 200, func(u *user.User) { u.IsOnHoliday = true })
	_, err := env.store.WorkingHours().Upsert(ctx, workinghours.Config{
		DayOfWeek: 1, Role: user.RoleTeaching, StartTime: "08:00", EndTime: "17:00", Timezone: "UTC", IsActive: true,
	})
	require.NoError(t, err)

	saturday := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	n, err := env.svc.AllocateHolidayHours(ctx, saturday)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
