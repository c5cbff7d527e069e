package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeductionRepository_SnapshotsFollowDeduction(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewDeductionRepository(db)
	snapshots := postgresql.NewDeductionSnapshotRepository(db)

	paye, err := repo.Create(ctx, deduction.Statutory{Name: "PAYE", Percentage: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = repo.Create(ctx, deduction.Statutory{Name: "paye", Percentage: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, deduction.ErrDeductionExists)

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = snapshots.Create(ctx, deduction.Snapshot{DeductionID: paye.ID, Name: paye.Name, Percentage: paye.Percentage, EffectiveFrom: jan})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePercentage(ctx, paye.ID, decimal.NewFromInt(12)))
	require.NoError(t, snapshots.CloseOpen(ctx, paye.ID, apr))
	_, err = snapshots.Create(ctx, deduction.Snapshot{DeductionID: paye.ID, Name: paye.Name, Percentage: decimal.NewFromInt(12), EffectiveFrom: apr})
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "Paye")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(got.Percentage))

	march, err := snapshots.GetAsOf(ctx, paye.ID, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(march.Percentage))

	jun := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, snapshots.CloseOpen(ctx, paye.ID, jun))
	require.NoError(t, repo.Delete(ctx, paye.ID, jun))
	history, err := snapshots.ListByDeduction(ctx, paye.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	assert.ErrorIs(t, repo.Delete(ctx, paye.ID, jun), deduction.ErrDeductionNotFound)
	_, err = repo.GetByName(ctx, "PAYE")
	assert.ErrorIs(t, err, deduction.ErrDeductionNotFound)
	assert.ErrorIs(t, repo.UpdatePercentage(ctx, paye.ID, decimal.NewFromInt(1)), deduction.ErrDeductionNotFound)
	live, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)

	inForce, err := snapshots.ListInForceAt(ctx, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, inForce, 1)
	assert.True(t, decimal.NewFromInt(12).Equal(inForce[0].Percentage))

	afterDelete, err := snapshots.ListInForceAt(ctx, jun)
	require.NoError(t, err)
	assert.Empty(t, afterDelete)

	// The name is free again once the old row is deleted.
	_, err = repo.Create(ctx, deduction.Statutory{Name: "PAYE", Percentage: decimal.NewFromInt(8)})
	require.NoError(t, err)
}

func TestRateRepository_Upsert(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewRateRepository(db)

	first, err := repo.Upsert(ctx, rate.Setting{
		Role: user.RoleTeaching, HourlyRate: decimal.NewFromInt(200),
		OvertimeMultiplier: decimal.RequireFromString("1.5"), AdvanceLimit: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, rate.Setting{
		Role: user.RoleTeaching, HourlyRate: decimal.NewFromInt(250),
		OvertimeMultiplier: decimal.NewFromInt(2), AdvanceLimit: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByRole(ctx, user.RoleTeaching)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(got.HourlyRate))
	assert.True(t, decimal.NewFromInt(2).Equal(got.OvertimeMultiplier))

	_, err = repo.GetByRole(ctx, user.RoleOffice)
	assert.ErrorIs(t, err, rate.ErrRateNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWorkingHoursRepository_Upsert(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewWorkingHoursRepository(db)

	cfg := workinghours.Config{
		DayOfWeek: 1, Role: user.RoleTeaching, StartTime: "07:00", EndTime: "16:00",
		Timezone: workinghours.DefaultTimezone, IsActive: true,
	}
	first, err := repo.Upsert(ctx, cfg)
	require.NoError(t, err)

	cfg.EndTime = "17:00"
	second, err := repo.Upsert(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	cfg.DayOfWeek, cfg.IsActive = 2, false
	_, err = repo.Upsert(ctx, cfg)
	require.NoError(t, err)

	active, err := repo.ListActiveByRole(ctx, user.RoleTeaching)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "17:00", active[0].EndTime)

	_, err = repo.GetActive(ctx, user.RoleTeaching, 2)
	assert.ErrorIs(t, err, workinghours.ErrWorkingHoursNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
