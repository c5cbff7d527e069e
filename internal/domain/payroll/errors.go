package payroll

import "errors"

var (
	ErrDetailedPayslipFailed   = errors.New("detailed_payslip_failed")
	ErrNetPayCalculationFailed = errors.New("net_pay_calculation_failed")
	ErrPayrollSummaryFailed    = errors.New("payroll_summary_failed")
	ErrPayrollExportFailed     = errors.New("payroll_export_failed")
)
