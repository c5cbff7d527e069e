package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceRepository_TotalsAndApprover(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewAdvanceRepository(db)
	staff := createTestUser(t, ctx, "staff@example.com", user.RoleTeaching)
	admin := createTestUser(t, ctx, "admin@example.com", user.RoleAdmin)

	created, err := repo.Create(ctx, advance.Payment{UserID: staff.ID, Amount: decimal.NewFromInt(1000), Month: 3, Year: 2025, ApprovedByID: &admin.ID})
	require.NoError(t, err)
	require.NotNil(t, created.ApprovedByName)
	assert.Equal(t, admin.FullName, *created.ApprovedByName)

	_, err = repo.Create(ctx, advance.Payment{UserID: staff.ID, Amount: decimal.RequireFromString("250.50"), Month: 3, Year: 2025})
	require.NoError(t, err)
	_, err = repo.Create(ctx, advance.Payment{UserID: staff.ID, Amount: decimal.NewFromInt(400), Month: 4, Year: 2025})
	require.NoError(t, err)

	total, err := repo.TotalForPeriod(ctx, staff.ID, 3, 2025)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(total))

	empty, err := repo.TotalForPeriod(ctx, staff.ID, 5, 2025)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	month, year := 3, 2025
	march, err := repo.ListByUser(ctx, staff.ID, &month, &year)
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.False(t, march[0].CreatedAt.Before(march[1].CreatedAt))

	all, err := repo.ListByUser(ctx, staff.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOvertimeRepository_ListByUser(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewOvertimeRepository(db)
	staff := createTestUser(t, ctx, "ot@example.com", user.RoleTeaching)

	for _, day := range []int{12, 5} {
		_, err := repo.Create(ctx, overtime.Allowance{
			UserID: staff.ID, Date: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC), Month: 3, Year: 2025,
			Hours: decimal.NewFromInt(2), Amount: decimal.NewFromInt(300),
		})
		require.NoError(t, err)
	}

	list, err := repo.ListByUser(ctx, staff.ID, 3, 2025)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].Date.Day())

	total, err := repo.TotalForPeriod(ctx, staff.ID, 3, 2025)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600).Equal(total))
}

func TestCorrectionRepository_CRUD(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewCorrectionRepository(db)
	staff := createTestUser(t, ctx, "corr@example.com", user.RoleTeaching)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	c := hourcorrection.Correction{
		UserID: staff.ID, Date: date, Month: 3, Year: 2025,
		Hours: decimal.RequireFromString("-1.5"), HourlyRate: decimal.NewFromInt(150),
		Reason: hourcorrection.HolidayAllocationReason,
	}
	c.Recalculate()
	created, err := repo.Create(ctx, c)
	require.NoError(t, err)
	require.NotNil(t, created.UserEmail)
	assert.Equal(t, staff.Email, *created.UserEmail)
	assert.True(t, decimal.RequireFromString("-225").Equal(created.Amount))

	exists, err := repo.ExistsForReasonOnDate(ctx, staff.ID, hourcorrection.HolidayAllocationReason, "2025-03-10")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsForReasonOnDate(ctx, staff.ID, hourcorrection.HolidayAllocationReason, "2025-03-11")
	require.NoError(t, err)
	assert.False(t, exists)

	created.Hours = decimal.NewFromInt(2)
	created.Recalculate()
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(updated.Amount))

	month := 3
	list, total, err := repo.List(ctx, hourcorrection.CorrectionFilter{UserID: &staff.ID, Month: &month, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	period, err := repo.ListByUserPeriod(ctx, staff.ID, 3, 2025)
	require.NoError(t, err)
	assert.Len(t, period, 1)

	_, err = repo.GetByID(ctx, "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f")
	assert.ErrorIs(t, err, hourcorrection.ErrCorrectionNotFound)
}

func TestCorrectionRepository_AmountFollowsHoursAndRate(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewCorrectionRepository(db)
	staff := createTestUser(t, ctx, "corr-amount@example.com", user.RoleOffice)

	created, err := repo.Create(ctx, hourcorrection.Correction{
		UserID: staff.ID, Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Month: 3, Year: 2025,
		Hours: decimal.NewFromInt(3), HourlyRate: decimal.NewFromInt(100),
		Amount: decimal.NewFromInt(999999), Reason: "missed clock-out",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(created.Amount), "amount %s", created.Amount)

	created.HourlyRate = decimal.NewFromInt(120)
	created.Amount = decimal.Zero
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(360).Equal(updated.Amount), "amount %s", updated.Amount)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(360).Equal(stored.Amount))
}
