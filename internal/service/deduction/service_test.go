package deduction

import (
	"context"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(store *memory.Store, clock *time.Time) *DeductionServiceImpl {
	svc := NewDeductionService(store.Transactor(), store.Deductions(), store.DeductionSnapshots()).(*DeductionServiceImpl)
	svc.now = func() time.Time { return *clock }
	return svc
}

func TestDeductionService_SetDeduction_Snapshots(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newService(store, &clock)

	// Act: create, repeat unchanged, then change
	_, err := svc.SetDeduction(ctx, deduction.SetDeductionRequest{Name: "NSSF", Percentage: decimal.NewFromInt(6)})
	require.NoError(t, err)

	clock = clock.AddDate(0, 1, 0)
	_, err = svc.SetDeduction(ctx, deduction.SetDeductionRequest{Name: "NSSF", Percentage: decimal.NewFromInt(6)})
	require.NoError(t, err)

	clock = clock.AddDate(0, 1, 0)
	resp, err := svc.SetDeduction(ctx, deduction.SetDeductionRequest{Name: "NSSF", Percentage: decimal.NewFromFloat(7.5)})
	require.NoError(t, err)

	// Assert
	assert.True(t, decimal.NewFromFloat(7.5).Equal(resp.Percentage))

	history, err := svc.History(ctx, "NSSF")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[0].EffectiveTo)
	require.NotNil(t, history[1].EffectiveTo)
	assert.Equal(t, history[0].EffectiveFrom, *history[1].EffectiveTo)

	open := 0
	for _, h := range history {
		if h.EffectiveTo == nil {
			open++
		}
	}
	assert.Equal(t, 1, open)

	d, err := store.Deductions().GetByName(ctx, "NSSF")
	require.NoError(t, err)
	asOf, err := store.DeductionSnapshots().GetAsOf(ctx, d.ID, time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(asOf.Percentage))
}

func TestDeductionService_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := time.Now()
	svc := newService(store, &clock)

	for _, req := range []deduction.SetDeductionRequest{
		{Name: "PAYE", Percentage: decimal.NewFromInt(10)},
		{Name: " NSSF ", Percentage: decimal.NewFromInt(6)},
	} {
		_, err := svc.SetDeduction(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "NSSF", all[0].Name)

	got, err := svc.GetDeduction(ctx, "paye")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Percentage))

	require.NoError(t, svc.Delete(ctx, "PAYE"))
	_, err = svc.GetDeduction(ctx, "PAYE")
	assert.ErrorIs(t, err, deduction.ErrDeductionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "PAYE"), deduction.ErrDeductionNotFound)

	_, err = svc.History(ctx, "PAYE")
	assert.ErrorIs(t, err, deduction.ErrDeductionNotFound)
}

func TestDeductionService_Delete_KeepsHistoryForEarlierPeriods(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newService(store, &clock)

	_, err := svc.SetDeduction(ctx, deduction.SetDeductionRequest{Name: "PAYE", Percentage: decimal.NewFromInt(10)})
	require.NoError(t, err)
	d, err := store.Deductions().GetByName(ctx, "PAYE")
	require.NoError(t, err)

	clock = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Delete(ctx, "PAYE"))

	history, err := store.DeductionSnapshots().ListByDeduction(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].EffectiveTo)
	assert.Equal(t, clock, *history[0].EffectiveTo)

	march, err := store.DeductionSnapshots().GetAsOf(ctx, d.ID, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(march.Percentage))

	_, err = store.DeductionSnapshots().GetAsOf(ctx, d.ID, clock)
	assert.ErrorIs(t, err, deduction.ErrSnapshotNotFound)

	// Re-creating the name starts a fresh deduction.
	_, err = svc.SetDeduction(ctx, deduction.SetDeductionRequest{Name: "PAYE", Percentage: decimal.NewFromInt(8)})
	require.NoError(t, err)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, decimal.NewFromInt(8).Equal(all[0].Percentage))
}

func TestDeductionService_Validation(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	svc := newService(memory.NewStore(), &clock)

	tests := []deduction.SetDeductionRequest{
		{Name: "", Percentage: decimal.NewFromInt(5)},
		{Name: "NHIF", Percentage: decimal.NewFromInt(-1)},
		{Name: "NHIF", Percentage: decimal.NewFromInt(101)},
	}
	for _, req := range tests {
		_, err := svc.SetDeduction(ctx, req)
		assert.Error(t, err)
	}
}
