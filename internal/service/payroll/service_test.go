package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var userSeq atomic.Int64

func repositories(store *memory.Store) Repositories {
	return Repositories{
		Users:              store.Users(),
		RateSnapshots:      store.RateSnapshots(),
		Attendance:         store.Attendance(),
		Overtime:           store.Overtime(),
		Advances:           store.Advances(),
		Deductions:         store.Deductions(),
		DeductionSnapshots: store.DeductionSnapshots(),
		Corrections:        store.Corrections(),
	}
}

func newService(store *memory.Store, source payroll.RateSource) *PayrollServiceImpl {
	return NewPayrollService(repositories(store), source, 4, time.UTC).(*PayrollServiceImpl)
}

func createUser(t *testing.T, store *memory.Store, rate int64, mutate func(u *user.User)) user.User {
	t.Helper()
	n := userSeq.Add(1)
	u := user.User{
		FullName:   "Staff Member",
		Email:      fmt.Sprintf("staff%d@example.com", n),
		Role:       user.RoleOffice,
		Status:     user.StatusActive,
		IsActive:   true,
		HourlyRate: decimal.NewFromInt(rate),
		Currency:   user.DefaultCurrency,
	}
	if mutate != nil {
		mutate(&u)
	}
	created, err := store.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func closedSession(t *testing.T, store *memory.Store, userID string, day time.Time, hours float64) {
	t.Helper()
	in := day.Add(8 * time.Hour)
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	total := attendance.ElapsedHours(in, out)
	_, err := store.Attendance().Create(context.Background(), attendance.Session{
		UserID:       userID,
		Date:         day,
		ClockInTime:  in,
		ClockOutTime: &out,
		ClockInType:  attendance.ClockInRegular,
		Status:       attendance.StatusClosed,
		TotalHours:   &total,
	})
	require.NoError(t, err)
}

func march(day int) time.Time { return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC) }

func marchRequest(userID string) payroll.PeriodRequest {
	return payroll.PeriodRequest{UserID: userID, Month: 3, Year: 2025}
}

func TestPayrollService_GenerateDetailedPayslip_GrossAndNet(t *testing.T) {
	// Setup
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)
	u := createUser(t, store, 200, nil)

	closedSession(t, store, u.ID, march(3), 8)
	_, err := store.Overtime().Create(ctx, overtime.Allowance{UserID: u.ID, Date: march(4), Month: 3, Year: 2025, Hours: decimal.NewFromInt(1), Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	_, err = store.Advances().Create(ctx, advance.Payment{UserID: u.ID, Amount: decimal.NewFromInt(100), Month: 3, Year: 2025})
	require.NoError(t, err)

	// Act
	slip, err := svc.GenerateDetailedPayslip(ctx, marchRequest(u.ID))

	// Assert
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1600).Equal(slip.TotalBasePay))
	assert.True(t, decimal.NewFromInt(50).Equal(slip.TotalOvertime))
	assert.True(t, decimal.NewFromInt(1650).Equal(slip.GrossPay), "gross %s", slip.GrossPay)
	assert.True(t, decimal.NewFromInt(100).Equal(slip.TotalAdvance))
	assert.True(t, decimal.NewFromInt(1550).Equal(slip.NetPay), "net %s", slip.NetPay)
	assert.True(t, decimal.NewFromInt(8).Equal(slip.TotalHours))

	require.Len(t, slip.DeductionsBreakdown, 1)
	assert.Equal(t, "No Deductions", slip.DeductionsBreakdown[0].Name)
	assert.True(t, slip.TotalDeductions.IsZero())

	require.Len(t, slip.BasePayBreakdown, 1)
	require.NotNil(t, slip.BasePayBreakdown[0].Date)
	assert.Equal(t, "2025-03-03", *slip.BasePayBreakdown[0].Date)
	assert.Equal(t, payroll.RateSourceLive, slip.RateSource)
	assert.Equal(t, "KES", slip.Currency)
}

func TestPayrollService_GenerateDetailedPayslip_Deductions(t *testing.T) {
	// Setup: 5h at 200 gives gross 1000
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)
	u := createUser(t, store, 200, nil)
	closedSession(t, store, u.ID, march(10), 5)

	for name, pct := range map[string]int64{"PAYE": 10, "NSSF": 6} {
		_, err := store.Deductions().Create(ctx, deduction.Statutory{Name: name, Percentage: decimal.NewFromInt(pct)})
		require.NoError(t, err)
	}

	// Act
	slip, err := svc.GenerateDetailedPayslip(ctx, marchRequest(u.ID))

	// Assert
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(slip.GrossPay))
	require.Len(t, slip.DeductionsBreakdown, 2)
	amounts := map[string]decimal.Decimal{}
	for _, d := range slip.DeductionsBreakdown {
		amounts[d.Name] = d.Amount
	}
	assert.True(t, decimal.NewFromInt(100).Equal(amounts["PAYE"]))
	assert.True(t, decimal.NewFromInt(60).Equal(amounts["NSSF"]))
	assert.True(t, decimal.NewFromInt(160).Equal(slip.TotalDeductions))
	assert.True(t, slip.GrossPay.Sub(slip.TotalDeductions).Sub(slip.TotalAdvance).Equal(slip.NetPay))
}

func TestPayrollService_GenerateDetailedPayslip_EmptyPeriodPlaceholders(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)
	u := createUser(t, store, 200, nil)

	// A session in another month must not leak in.
	closedSession(t, store, u.ID, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), 8)

	slip, err := svc.GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	require.NoError(t, err)

	require.Len(t, slip.BasePayBreakdown, 1)
	assert.Nil(t, slip.BasePayBreakdown[0].Date)
	require.Len(t, slip.CorrectionBreakdown, 1)
	assert.Nil(t, slip.CorrectionBreakdown[0].Date)
	require.Len(t, slip.OvertimeBreakdown, 1)
	assert.Nil(t, slip.OvertimeBreakdown[0].Date)
	require.Len(t, slip.AdvanceBreakdown, 1)
	assert.Nil(t, slip.AdvanceBreakdown[0].Date)
	assert.Nil(t, slip.AdvanceBreakdown[0].ApprovedBy)
	require.Len(t, slip.DeductionsBreakdown, 1)

	for _, v := range []decimal.Decimal{slip.TotalHours, slip.TotalBasePay, slip.TotalOvertime, slip.GrossPay, slip.TotalDeductions, slip.TotalAdvance, slip.NetPay} {
		assert.True(t, v.IsZero())
	}
}

func TestPayrollService_GenerateDetailedPayslip_CorrectionsFoldIntoBasePay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)
	u := createUser(t, store, 200, nil)
	closedSession(t, store, u.ID, march(3), 8)

	for _, hours := range []int64{3, -1} {
		c := hourcorrection.Correction{UserID: u.ID, Date: march(5), Month: 3, Year: 2025, Hours: decimal.NewFromInt(hours), HourlyRate: decimal.NewFromInt(150), Reason: "adjustment"}
		c.Recalculate()
		_, err := store.Corrections().Create(ctx, c)
		require.NoError(t, err)
	}

	slip, err := svc.GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	require.NoError(t, err)

	// 8h x 200 + (3-1)h x 150
	assert.True(t, decimal.NewFromInt(10).Equal(slip.TotalHours), "hours %s", slip.TotalHours)
	assert.True(t, decimal.NewFromInt(1900).Equal(slip.TotalBasePay), "base %s", slip.TotalBasePay)
	assert.True(t, slip.TotalBasePay.Add(slip.TotalOvertime).Equal(slip.GrossPay))
	assert.Len(t, slip.CorrectionBreakdown, 2)
}

func TestPayrollService_RateSource(t *testing.T) {
	// Setup: rate 100 and PAYE 10% during March, both raised on 1 April.
	ctx := context.Background()
	store := memory.NewStore()
	u := createUser(t, store, 300, nil)
	closedSession(t, store, u.ID, march(3), 10)

	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.RateSnapshots().Create(ctx, user.RateSnapshot{UserID: u.ID, HourlyRate: decimal.NewFromInt(100), Currency: "KES", EffectiveFrom: jan, EffectiveTo: &april})
	require.NoError(t, err)
	_, err = store.RateSnapshots().Create(ctx, user.RateSnapshot{UserID: u.ID, HourlyRate: decimal.NewFromInt(300), Currency: "KES", EffectiveFrom: april})
	require.NoError(t, err)

	paye, err := store.Deductions().Create(ctx, deduction.Statutory{Name: "PAYE", Percentage: decimal.NewFromInt(20)})
	require.NoError(t, err)
	_, err = store.DeductionSnapshots().Create(ctx, deduction.Snapshot{DeductionID: paye.ID, Name: "PAYE", Percentage: decimal.NewFromInt(10), EffectiveFrom: jan, EffectiveTo: &april})
	require.NoError(t, err)
	_, err = store.DeductionSnapshots().Create(ctx, deduction.Snapshot{DeductionID: paye.ID, Name: "PAYE", Percentage: decimal.NewFromInt(20), EffectiveFrom: april})
	require.NoError(t, err)

	// NHIF has no snapshot history, so it falls back to the live value.
	_, err = store.Deductions().Create(ctx, deduction.Statutory{Name: "NHIF", Percentage: decimal.NewFromInt(5)})
	require.NoError(t, err)

	tests := []struct {
		source    payroll.RateSource
		wantRate  int64
		wantGross int64
		wantDed   int64
	}{
		{payroll.RateSourceLive, 300, 3000, 750},    // 20% + 5%
		{payroll.RateSourceSnapshot, 100, 1000, 150}, // 10% + 5%
	}
	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			// Act
			slip, err := newService(store, tt.source).GenerateDetailedPayslip(ctx, marchRequest(u.ID))

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.source, slip.RateSource)
			assert.True(t, decimal.NewFromInt(tt.wantRate).Equal(slip.HourlyRate), "rate %s", slip.HourlyRate)
			assert.True(t, decimal.NewFromInt(tt.wantGross).Equal(slip.GrossPay), "gross %s", slip.GrossPay)
			assert.True(t, decimal.NewFromInt(tt.wantDed).Equal(slip.TotalDeductions), "deductions %s", slip.TotalDeductions)
		})
	}
}

func TestPayrollService_GenerateDetailedPayslip_BasePayPricedFromTotalHours(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)
	u := createUser(t, store, 0, func(u *user.User) { u.HourlyRate = decimal.RequireFromString("10.01") })

	hours := decimal.RequireFromString("0.33")
	for _, day := range []int{3, 4, 5} {
		in := march(day).Add(8 * time.Hour)
		out := in.Add(20 * time.Minute)
		_, err := store.Attendance().Create(ctx, attendance.Session{
			UserID: u.ID, Date: march(day), ClockInTime: in, ClockOutTime: &out,
			ClockInType: attendance.ClockInRegular, Status: attendance.StatusClosed, TotalHours: &hours,
		})
		require.NoError(t, err)
	}

	slip, err := svc.GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	require.NoError(t, err)

	// Each row shows 3.30, but 0.99h x 10.01 = 9.9099.
	assert.True(t, decimal.RequireFromString("0.99").Equal(slip.TotalHours), "hours %s", slip.TotalHours)
	assert.True(t, decimal.RequireFromString("9.91").Equal(slip.TotalBasePay), "base %s", slip.TotalBasePay)
	assert.True(t, slip.TotalHours.Mul(slip.HourlyRate).Round(2).Equal(slip.TotalBasePay))
	require.Len(t, slip.BasePayBreakdown, 3)
	assert.True(t, decimal.RequireFromString("3.3").Equal(slip.BasePayBreakdown[0].Pay))
}

func TestPayrollService_RateSource_SnapshotKeepsDeletedDeduction(t *testing.T) {
	// Setup: PAYE 10% from January, deleted mid April.
	ctx := context.Background()
	store := memory.NewStore()
	u := createUser(t, store, 200, nil)
	closedSession(t, store, u.ID, march(10), 5)

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	deletedAt := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	paye, err := store.Deductions().Create(ctx, deduction.Statutory{Name: "PAYE", Percentage: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = store.DeductionSnapshots().Create(ctx, deduction.Snapshot{DeductionID: paye.ID, Name: "PAYE", Percentage: decimal.NewFromInt(10), EffectiveFrom: jan})
	require.NoError(t, err)

	// A deduction introduced in May was not in force during March.
	may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	shif, err := store.Deductions().Create(ctx, deduction.Statutory{Name: "SHIF", Percentage: decimal.NewFromInt(3)})
	require.NoError(t, err)
	_, err = store.DeductionSnapshots().Create(ctx, deduction.Snapshot{DeductionID: shif.ID, Name: "SHIF", Percentage: decimal.NewFromInt(3), EffectiveFrom: may})
	require.NoError(t, err)

	require.NoError(t, store.DeductionSnapshots().CloseOpen(ctx, paye.ID, deletedAt))
	require.NoError(t, store.Deductions().Delete(ctx, paye.ID, deletedAt))

	// Act
	snapshot, err := newService(store, payroll.RateSourceSnapshot).GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	require.NoError(t, err)
	live, err := newService(store, payroll.RateSourceLive).GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	require.NoError(t, err)

	// Assert
	require.Len(t, snapshot.DeductionsBreakdown, 1)
	assert.Equal(t, "PAYE", snapshot.DeductionsBreakdown[0].Name)
	assert.True(t, decimal.NewFromInt(100).Equal(snapshot.TotalDeductions), "deductions %s", snapshot.TotalDeductions)
	assert.True(t, decimal.NewFromInt(900).Equal(snapshot.NetPay), "net %s", snapshot.NetPay)

	require.Len(t, live.DeductionsBreakdown, 1)
	assert.Equal(t, "SHIF", live.DeductionsBreakdown[0].Name)
	assert.True(t, decimal.NewFromInt(30).Equal(live.TotalDeductions))
}

func TestPayrollService_RateSource_SnapshotFallsBackToLive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	u := createUser(t, store, 250, nil)
	closedSession(t, store, u.ID, march(3), 2)

	slip, err := newService(store, payroll.RateSourceSnapshot).GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(slip.HourlyRate))
	assert.True(t, decimal.NewFromInt(500).Equal(slip.GrossPay))
}

type failingAttendance struct {
	attendance.AttendanceRepository
}

func (failingAttendance) ListClosedForPeriod(ctx context.Context, userID string, month, year int) ([]attendance.Session, error) {
	return nil, errors.New("connection reset")
}

func TestPayrollService_Errors(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	u := createUser(t, store, 200, nil)

	svc := newService(store, payroll.RateSourceLive)
	_, err := svc.GenerateDetailedPayslip(ctx, marchRequest("6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"))
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.GenerateDetailedPayslip(ctx, payroll.PeriodRequest{UserID: u.ID, Month: 13, Year: 2025})
	assert.Error(t, err)

	repos := repositories(store)
	repos.Attendance = failingAttendance{store.Attendance()}
	broken := NewPayrollService(repos, payroll.RateSourceLive, 1, time.UTC)

	slip, err := broken.GenerateDetailedPayslip(ctx, marchRequest(u.ID))
	assert.ErrorIs(t, err, payroll.ErrDetailedPayslipFailed)
	assert.Empty(t, slip.User.ID)

	_, err = broken.CalculateNetPay(ctx, marchRequest(u.ID))
	assert.ErrorIs(t, err, payroll.ErrNetPayCalculationFailed)

	_, err = broken.MonthlySummary(ctx, payroll.SummaryRequest{Month: 3, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrPayrollSummaryFailed)
}

func TestPayrollService_CalculateNetPay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)
	u := createUser(t, store, 200, nil)
	closedSession(t, store, u.ID, march(3), 8)
	_, err := store.Advances().Create(ctx, advance.Payment{UserID: u.ID, Amount: decimal.NewFromInt(100), Month: 3, Year: 2025})
	require.NoError(t, err)

	net, err := svc.CalculateNetPay(ctx, marchRequest(u.ID))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1600).Equal(net.GrossPay))
	assert.True(t, decimal.NewFromInt(1500).Equal(net.NetPay))
	assert.Equal(t, 3, net.Month)
}

func TestPayrollService_MonthlySummaryAndExport(t *testing.T) {
	// Setup
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store, payroll.RateSourceLive)

	a := createUser(t, store, 200, func(u *user.User) { u.FullName = "Amina Otieno" })
	b := createUser(t, store, 100, func(u *user.User) { u.FullName = "Brian Kip" })
	inactive := createUser(t, store, 500, func(u *user.User) { u.IsActive = false })

	closedSession(t, store, a.ID, march(3), 8)
	closedSession(t, store, b.ID, march(4), 4)
	closedSession(t, store, inactive.ID, march(4), 4)

	// Act
	summary, err := svc.MonthlySummary(ctx, payroll.SummaryRequest{Month: 3, Year: 2025})

	// Assert
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)
	byUser := map[string]payroll.SummaryRow{}
	for _, row := range summary.Rows {
		byUser[row.UserID] = row
	}
	assert.True(t, decimal.NewFromInt(1600).Equal(byUser[a.ID].GrossPay))
	assert.True(t, decimal.NewFromInt(400).Equal(byUser[b.ID].GrossPay))
	assert.True(t, decimal.NewFromInt(2000).Equal(summary.TotalGross))
	assert.True(t, decimal.NewFromInt(2000).Equal(summary.TotalNet))
	assert.NotContains(t, byUser, inactive.ID)

	data, err := svc.ExportMonthlyXLSX(ctx, payroll.SummaryRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "Payroll 2025-03"
	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Full Name", rows[0][0])
	assert.Equal(t, "Total", rows[3][0])

	names := []string{rows[1][0], rows[2][0]}
	assert.ElementsMatch(t, []string{"Amina Otieno", "Brian Kip"}, names)
}
