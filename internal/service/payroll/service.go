package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

// Repositories are the read paths a payslip is aggregated from.
type Repositories struct {
	Users              user.UserRepository
	RateSnapshots      user.RateSnapshotRepository
	Attendance         attendance.AttendanceRepository
	Overtime           overtime.OvertimeRepository
	Advances           advance.AdvanceRepository
	Deductions         deduction.DeductionRepository
	DeductionSnapshots deduction.SnapshotRepository
	Corrections        hourcorrection.CorrectionRepository
}

type PayrollServiceImpl struct {
	repos       Repositories
	source      payroll.RateSource
	concurrency int
	loc         *time.Location
	now         func() time.Time
}

func NewPayrollService(repos Repositories, source payroll.RateSource, concurrency int, loc *time.Location) payroll.PayrollService {
	if !source.IsValid() {
		source = payroll.RateSourceLive
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		repos:       repos,
		source:      source,
		concurrency: concurrency,
		loc:         loc,
		now:         time.Now,
	}
}

// GenerateDetailedPayslip implements payroll.PayrollService. An unknown user is
// reported as such; every other failure collapses to ErrDetailedPayslipFailed
// and no partial payslip is returned.
func (s *PayrollServiceImpl) GenerateDetailedPayslip(ctx context.Context, req payroll.PeriodRequest) (payroll.Payslip, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payslip{}, err
	}

	u, err := s.repos.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return payroll.Payslip{}, err
		}
		return payroll.Payslip{}, s.payslipFailed(req, err)
	}

	slip, err := s.buildPayslip(ctx, u, payroll.Period{Month: req.Month, Year: req.Year, Loc: s.loc})
	if err != nil {
		return payroll.Payslip{}, s.payslipFailed(req, err)
	}

	slog.Info("detailed payslip generated",
		"user_id", u.ID,
		"month", req.Month,
		"year", req.Year,
		"rate_source", slip.RateSource,
		"net_pay", slip.NetPay.String(),
		"currency", slip.Currency,
	)
	return slip, nil
}

// CalculateNetPay implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateNetPay(ctx context.Context, req payroll.PeriodRequest) (payroll.NetPay, error) {
	if err := req.Validate(); err != nil {
		return payroll.NetPay{}, err
	}

	u, err := s.repos.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return payroll.NetPay{}, err
		}
		return payroll.NetPay{}, fmt.Errorf("%w: %w", payroll.ErrNetPayCalculationFailed, err)
	}

	slip, err := s.buildPayslip(ctx, u, payroll.Period{Month: req.Month, Year: req.Year, Loc: s.loc})
	if err != nil {
		slog.Error("net pay calculation failed", "user_id", req.UserID, "month", req.Month, "year", req.Year, "error", err)
		return payroll.NetPay{}, fmt.Errorf("%w: %w", payroll.ErrNetPayCalculationFailed, err)
	}
	return payroll.NetPayFromPayslip(slip), nil
}

func (s *PayrollServiceImpl) payslipFailed(req payroll.PeriodRequest, err error) error {
	slog.Error("detailed payslip failed", "user_id", req.UserID, "month", req.Month, "year", req.Year, "error", err)
	return fmt.Errorf("%w: %w", payroll.ErrDetailedPayslipFailed, err)
}
