package payroll

import "context"

type PayrollService interface {
	GenerateDetailedPayslip(ctx context.Context, req PeriodRequest) (Payslip, error)
	CalculateNetPay(ctx context.Context, req PeriodRequest) (NetPay, error)
	MonthlySummary(ctx context.Context, req SummaryRequest) (MonthlySummary, error)
	ExportMonthlyXLSX(ctx context.Context, req SummaryRequest) ([]byte, error)
}
