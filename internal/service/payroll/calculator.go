package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// buildPayslip aggregates every section of a user's payslip for one period.
// Hour corrections are correcting entries: their hours and frozen-rate amounts
// fold into total_hours and total_base_pay.
func (s *PayrollServiceImpl) buildPayslip(ctx context.Context, u user.User, period payroll.Period) (payroll.Payslip, error) {
	rate, currency, err := s.hourlyRate(ctx, u, period.End())
	if err != nil {
		return payroll.Payslip{}, err
	}

	slip := payroll.Payslip{
		User:       payroll.PayslipUser{ID: u.ID, FullName: u.FullName, Email: u.Email},
		Month:      period.Month,
		Year:       period.Year,
		HourlyRate: rate,
		Currency:   currency,
		RateSource: s.source,
	}

	totalHours, totalBase, err := s.basePay(ctx, &slip, u.ID, rate, period)
	if err != nil {
		return payroll.Payslip{}, err
	}
	corrHours, corrAmount, err := s.corrections(ctx, &slip, u.ID, period)
	if err != nil {
		return payroll.Payslip{}, err
	}
	slip.TotalHours = totalHours.Add(corrHours).Round(2)
	slip.TotalBasePay = totalBase.Add(corrAmount).Round(2)

	if err := s.overtime(ctx, &slip, u.ID, period); err != nil {
		return payroll.Payslip{}, err
	}
	slip.GrossPay = slip.TotalBasePay.Add(slip.TotalOvertime)

	if err := s.deductions(ctx, &slip, period.End()); err != nil {
		return payroll.Payslip{}, err
	}
	if err := s.advances(ctx, &slip, u.ID, period); err != nil {
		return payroll.Payslip{}, err
	}

	slip.NetPay = slip.GrossPay.Sub(slip.TotalDeductions).Sub(slip.TotalAdvance)
	return slip, nil
}

// hourlyRate resolves the user's rate through the configured source. In
// snapshot mode a user with no snapshot covering the instant uses the live rate.
func (s *PayrollServiceImpl) hourlyRate(ctx context.Context, u user.User, at time.Time) (decimal.Decimal, string, error) {
	if s.source == payroll.RateSourceSnapshot {
		snap, err := s.repos.RateSnapshots.GetAsOf(ctx, u.ID, at)
		switch {
		case err == nil:
			return snap.HourlyRate, snap.Currency, nil
		case !errors.Is(err, user.ErrRateSnapshotNotFound):
			return decimal.Zero, "", fmt.Errorf("failed to resolve rate snapshot: %w", err)
		}
	}
	currency := u.Currency
	if currency == "" {
		currency = user.DefaultCurrency
	}
	return u.HourlyRate, currency, nil
}

func (s *PayrollServiceImpl) basePay(ctx context.Context, slip *payroll.Payslip, userID string, rate decimal.Decimal, period payroll.Period) (decimal.Decimal, decimal.Decimal, error) {
	sessions, err := s.repos.Attendance.ListClosedForPeriod(ctx, userID, period.Month, period.Year)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list closed sessions: %w", err)
	}

	hours := decimal.Zero
	for _, session := range sessions {
		h := decimal.Zero
		if session.TotalHours != nil {
			h = *session.TotalHours
		}
		p := h.Mul(rate).Round(2)
		hours = hours.Add(h)

		notes := ""
		if session.Notes != nil {
			notes = *session.Notes
		}
		slip.BasePayBreakdown = append(slip.BasePayBreakdown, payroll.BasePayEntry{
			Date:  dateString(session.Date),
			Hours: h,
			Pay:   p,
			Notes: notes,
		})
	}
	if len(slip.BasePayBreakdown) == 0 {
		slip.BasePayBreakdown = []payroll.BasePayEntry{{Hours: decimal.Zero, Pay: decimal.Zero}}
	}
	// Rows are rounded for display only. The total is priced from the summed
	// hours so it matches total_hours x hourly_rate.
	return hours, hours.Mul(rate), nil
}

func (s *PayrollServiceImpl) corrections(ctx context.Context, slip *payroll.Payslip, userID string, period payroll.Period) (decimal.Decimal, decimal.Decimal, error) {
	rows, err := s.repos.Corrections.ListByUserPeriod(ctx, userID, period.Month, period.Year)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list hour corrections: %w", err)
	}

	hours, amount := decimal.Zero, decimal.Zero
	for _, c := range rows {
		hours = hours.Add(c.Hours)
		amount = amount.Add(c.Amount)
		slip.CorrectionBreakdown = append(slip.CorrectionBreakdown, payroll.CorrectionEntry{
			Date:       dateString(c.Date),
			Hours:      c.Hours,
			HourlyRate: c.HourlyRate,
			Amount:     c.Amount.Round(2),
			Reason:     c.Reason,
		})
	}
	if len(slip.CorrectionBreakdown) == 0 {
		slip.CorrectionBreakdown = []payroll.CorrectionEntry{{Hours: decimal.Zero, HourlyRate: decimal.Zero, Amount: decimal.Zero}}
	}
	return hours, amount, nil
}

func (s *PayrollServiceImpl) overtime(ctx context.Context, slip *payroll.Payslip, userID string, period payroll.Period) error {
	allowances, err := s.repos.Overtime.ListByUser(ctx, userID, period.Month, period.Year)
	if err != nil {
		return fmt.Errorf("failed to list overtime: %w", err)
	}

	total := decimal.Zero
	for _, a := range allowances {
		total = total.Add(a.Amount)
		remarks := ""
		if a.Remarks != nil {
			remarks = *a.Remarks
		}
		slip.OvertimeBreakdown = append(slip.OvertimeBreakdown, payroll.OvertimeEntry{
			Date:    dateString(a.Date),
			Hours:   a.Hours,
			Amount:  a.Amount,
			Remarks: remarks,
		})
	}
	if len(slip.OvertimeBreakdown) == 0 {
		slip.OvertimeBreakdown = []payroll.OvertimeEntry{{Hours: decimal.Zero, Amount: decimal.Zero}}
	}
	slip.TotalOvertime = total.Round(2)
	return nil
}

// deductions applies every deduction in force to gross pay. Each amount is
// rounded to cents before summing so the breakdown adds up to the total.
func (s *PayrollServiceImpl) deductions(ctx context.Context, slip *payroll.Payslip, at time.Time) error {
	rates, err := s.deductionRates(ctx, at)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, d := range rates {
		amount := slip.GrossPay.Mul(d.Percentage).Div(hundred).Round(2)
		total = total.Add(amount)
		slip.DeductionsBreakdown = append(slip.DeductionsBreakdown, payroll.DeductionEntry{
			Name:       d.Name,
			Percentage: d.Percentage,
			Amount:     amount,
		})
	}
	if len(slip.DeductionsBreakdown) == 0 {
		slip.DeductionsBreakdown = []payroll.DeductionEntry{{Name: "No Deductions", Percentage: decimal.Zero, Amount: decimal.Zero}}
	}
	slip.TotalDeductions = total
	return nil
}

// deductionRates lists the deductions to apply. Live mode uses the current
// configuration. Snapshot mode uses the snapshots in force at the instant,
// which still include deductions deleted since, plus any live deduction that
// has no snapshot history at all.
func (s *PayrollServiceImpl) deductionRates(ctx context.Context, at time.Time) ([]deduction.Statutory, error) {
	live, err := s.repos.Deductions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	if s.source != payroll.RateSourceSnapshot {
		return live, nil
	}

	inForce, err := s.repos.DeductionSnapshots.ListInForceAt(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction snapshots: %w", err)
	}
	covered := make(map[string]bool, len(inForce))
	rates := make([]deduction.Statutory, 0, len(inForce)+len(live))
	for _, snap := range inForce {
		covered[snap.DeductionID] = true
		rates = append(rates, deduction.Statutory{ID: snap.DeductionID, Name: snap.Name, Percentage: snap.Percentage})
	}
	for _, d := range live {
		if covered[d.ID] {
			continue
		}
		history, err := s.repos.DeductionSnapshots.ListByDeduction(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list deduction snapshots %s: %w", d.Name, err)
		}
		if len(history) > 0 {
			// Not yet in force at the instant.
			continue
		}
		rates = append(rates, d)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Name < rates[j].Name })
	return rates, nil
}

func (s *PayrollServiceImpl) advances(ctx context.Context, slip *payroll.Payslip, userID string, period payroll.Period) error {
	month, year := period.Month, period.Year
	payments, err := s.repos.Advances.ListByUser(ctx, userID, &month, &year)
	if err != nil {
		return fmt.Errorf("failed to list advances: %w", err)
	}

	// Payslips list advances oldest first.
	total := decimal.Zero
	for i := len(payments) - 1; i >= 0; i-- {
		p := payments[i]
		total = total.Add(p.Amount)
		remarks := ""
		if p.Remarks != nil {
			remarks = *p.Remarks
		}
		slip.AdvanceBreakdown = append(slip.AdvanceBreakdown, payroll.AdvanceEntry{
			Date:       dateString(p.CreatedAt.In(s.loc)),
			Amount:     p.Amount,
			Remarks:    remarks,
			ApprovedBy: p.ApprovedByName,
		})
	}
	if len(slip.AdvanceBreakdown) == 0 {
		slip.AdvanceBreakdown = []payroll.AdvanceEntry{{Amount: decimal.Zero}}
	}
	slip.TotalAdvance = total.Round(2)
	return nil
}

func dateString(t time.Time) *string {
	s := t.Format(dateLayout)
	return &s
}
