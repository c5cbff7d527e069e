package rate

import (
	"context"
	"testing"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateService_SetRate(t *testing.T) {
	ctx := context.Background()
	svc := NewRateService(memory.NewStore().Rates())

	// Default multiplier when omitted
	resp, err := svc.SetRate(ctx, rate.SetRateRequest{Role: "teaching", HourlyRate: decimal.NewFromInt(250), AdvanceLimit: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	assert.True(t, rate.DefaultOvertimeMultiplier.Equal(resp.OvertimeMultiplier))

	multiplier := decimal.NewFromInt(2)
	_, err = svc.SetRate(ctx, rate.SetRateRequest{Role: "teaching", HourlyRate: decimal.NewFromInt(300), OvertimeMultiplier: &multiplier})
	require.NoError(t, err)

	got, err := svc.GetRate(ctx, user.RoleTeaching)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(got.HourlyRate))
	assert.True(t, multiplier.Equal(got.OvertimeMultiplier))
	assert.True(t, got.AdvanceLimit.IsZero())

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRateService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewRateService(memory.NewStore().Rates())

	_, err := svc.GetRate(ctx, user.RoleOffice)
	assert.ErrorIs(t, err, rate.ErrRateNotFound)

	zero := decimal.Zero
	tests := []rate.SetRateRequest{
		{Role: "chef", HourlyRate: decimal.NewFromInt(1)},
		{Role: "office", HourlyRate: decimal.NewFromInt(-1)},
		{Role: "office", HourlyRate: decimal.NewFromInt(1), OvertimeMultiplier: &zero},
		{Role: "office", HourlyRate: decimal.NewFromInt(1), AdvanceLimit: decimal.NewFromInt(-5)},
	}
	for _, req := range tests {
		_, err := svc.SetRate(ctx, req)
		assert.Error(t, err)
	}
}
