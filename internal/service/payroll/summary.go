package payroll

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// MonthlySummary implements payroll.PayrollService. Payslips for every active
// user are built concurrently, bounded by the configured limit. One failure
// fails the whole summary.
func (s *PayrollServiceImpl) MonthlySummary(ctx context.Context, req payroll.SummaryRequest) (payroll.MonthlySummary, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthlySummary{}, err
	}

	users, err := s.repos.Users.ListActive(ctx)
	if err != nil {
		return payroll.MonthlySummary{}, fmt.Errorf("%w: %w", payroll.ErrPayrollSummaryFailed, err)
	}

	period := payroll.Period{Month: req.Month, Year: req.Year, Loc: s.loc}
	rows := make([]payroll.SummaryRow, len(users))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, u := range users {
		g.Go(func() error {
			slip, err := s.buildPayslip(gCtx, u, period)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
			rows[i] = payroll.SummaryRow{
				UserID:          u.ID,
				FullName:        u.FullName,
				Email:           u.Email,
				Role:            string(u.Role),
				Currency:        slip.Currency,
				TotalHours:      slip.TotalHours,
				TotalBasePay:    slip.TotalBasePay,
				TotalOvertime:   slip.TotalOvertime,
				GrossPay:        slip.GrossPay,
				TotalDeductions: slip.TotalDeductions,
				TotalAdvance:    slip.TotalAdvance,
				NetPay:          slip.NetPay,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("payroll summary failed", "month", req.Month, "year", req.Year, "error", err)
		return payroll.MonthlySummary{}, fmt.Errorf("%w: %w", payroll.ErrPayrollSummaryFailed, err)
	}

	summary := payroll.MonthlySummary{
		Month:      req.Month,
		Year:       req.Year,
		RateSource: s.source,
		Rows:       rows,
		TotalGross: decimal.Zero,
		TotalNet:   decimal.Zero,
	}
	for _, row := range rows {
		summary.TotalGross = summary.TotalGross.Add(row.GrossPay)
		summary.TotalNet = summary.TotalNet.Add(row.NetPay)
	}

	slog.Info("payroll summary generated", "month", req.Month, "year", req.Year, "users", len(rows))
	return summary, nil
}

var summaryHeaders = []string{
	"Full Name", "Email", "Role", "Currency", "Total Hours", "Base Pay",
	"Overtime", "Gross Pay", "Deductions", "Advances", "Net Pay",
}

// ExportMonthlyXLSX implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportMonthlyXLSX(ctx context.Context, req payroll.SummaryRequest) ([]byte, error) {
	summary, err := s.MonthlySummary(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := renderSummary(summary)
	if err != nil {
		slog.Error("payroll export failed", "month", req.Month, "year", req.Year, "error", err)
		return nil, fmt.Errorf("%w: %w", payroll.ErrPayrollExportFailed, err)
	}
	return data, nil
}

func renderSummary(summary payroll.MonthlySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Payroll %04d-%02d", summary.Year, summary.Month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	for col, header := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(summaryHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range summary.Rows {
		values := []any{
			row.FullName, row.Email, row.Role, row.Currency,
			row.TotalHours.InexactFloat64(),
			row.TotalBasePay.InexactFloat64(),
			row.TotalOvertime.InexactFloat64(),
			row.GrossPay.InexactFloat64(),
			row.TotalDeductions.InexactFloat64(),
			row.TotalAdvance.InexactFloat64(),
			row.NetPay.InexactFloat64(),
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, err
		}
	}

	totalRow := len(summary.Rows) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), summary.TotalGross.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("K%d", totalRow), summary.TotalNet.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("K%d", totalRow), moneyStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "C", "K", 14); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
