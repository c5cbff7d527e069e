package http

import (
	"net/http"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	LunchIn(w http.ResponseWriter, r *http.Request)
	LunchOut(w http.ResponseWriter, r *http.Request)
	GetCurrent(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetReport(w http.ResponseWriter, r *http.Request)
	AutoClockOut(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req attendance.ClockInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req attendance.ClockOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// LunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) LunchIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req attendance.LunchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.LunchIn(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lunch in recorded", result)
}

// LunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) LunchOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req attendance.LunchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.LunchOut(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lunch out recorded", result)
}

// GetCurrent implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetCurrentSession(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func historyRequestFromQuery(r *http.Request) (attendance.HistoryRequest, error) {
	p := &queryParser{r: r}
	req := attendance.HistoryRequest{
		UserID:    queryString(r, "user_id"),
		Status:    queryString(r, "status"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Page:      p.int("page", 1),
		Limit:     p.int("limit", 20),
	}
	return req, p.err()
}

func (h *attendanceHandlerImpl) writeHistory(w http.ResponseWriter, r *http.Request, req attendance.HistoryRequest) {
	result, err := h.attendanceService.GetHistory(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Sessions, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetMyHistory implements AttendanceHandler. The caller only sees their own
// sessions whatever user_id they pass.
func (h *attendanceHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	req, err := historyRequestFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.UserID = &claims.UserID

	h.writeHistory(w, r, req)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req, err := historyRequestFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.writeHistory(w, r, req)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	rows, err := h.attendanceService.GetTodaySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// GetReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	req := attendance.ReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	report, err := h.attendanceService.GetDetailedReport(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// AutoClockOut implements AttendanceHandler. Runs the end-of-day sweep now.
func (h *attendanceHandlerImpl) AutoClockOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.AutoClockOut(r.Context(), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto clock-out completed", result)
}
