package http

import (
	"fmt"
	"net/http"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	GetPayslip(w http.ResponseWriter, r *http.Request)
	GetNetPay(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	ExportSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func periodRequest(w http.ResponseWriter, r *http.Request) (payroll.PeriodRequest, bool) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return payroll.PeriodRequest{}, false
	}

	userID, err := targetUser(claims, r.URL.Query().Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return payroll.PeriodRequest{}, false
	}

	p := &queryParser{r: r}
	req := payroll.PeriodRequest{
		UserID: userID,
		Month:  p.int("month", 0),
		Year:   p.int("year", 0),
	}
	if err := p.err(); err != nil {
		response.HandleError(w, err)
		return payroll.PeriodRequest{}, false
	}
	return req, true
}

func summaryRequest(w http.ResponseWriter, r *http.Request) (payroll.SummaryRequest, bool) {
	p := &queryParser{r: r}
	req := payroll.SummaryRequest{
		Month: p.int("month", 0),
		Year:  p.int("year", 0),
	}
	if err := p.err(); err != nil {
		response.HandleError(w, err)
		return payroll.SummaryRequest{}, false
	}
	return req, true
}

// GetPayslip implements PayrollHandler.
func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	req, ok := periodRequest(w, r)
	if !ok {
		return
	}

	slip, err := h.payrollService.GenerateDetailedPayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, slip)
}

// GetNetPay implements PayrollHandler.
func (h *payrollHandlerImpl) GetNetPay(w http.ResponseWriter, r *http.Request) {
	req, ok := periodRequest(w, r)
	if !ok {
		return
	}

	net, err := h.payrollService.CalculateNetPay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, net)
}

// GetSummary implements PayrollHandler.
func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := summaryRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.payrollService.MonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ExportSummary implements PayrollHandler.
func (h *payrollHandlerImpl) ExportSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := summaryRequest(w, r)
	if !ok {
		return
	}

	body, err := h.payrollService.ExportMonthlyXLSX(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, fmt.Sprintf("payroll-%04d-%02d.xlsx", req.Year, req.Month), xlsxContentType, body)
}
