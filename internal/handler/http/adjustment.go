package http

import (
	"net/http"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// AdjustmentHandler covers the per-period pay adjustments: salary advances,
// overtime allowances and hour corrections.
type AdjustmentHandler interface {
	CreateAdvance(w http.ResponseWriter, r *http.Request)
	ListAdvances(w http.ResponseWriter, r *http.Request)

	AuthorizeOvertime(w http.ResponseWriter, r *http.Request)
	ListOvertime(w http.ResponseWriter, r *http.Request)

	RecordCorrection(w http.ResponseWriter, r *http.Request)
	UpdateCorrection(w http.ResponseWriter, r *http.Request)
	ListCorrections(w http.ResponseWriter, r *http.Request)
}

type adjustmentHandlerImpl struct {
	advanceService    advance.AdvanceService
	overtimeService   overtime.OvertimeService
	correctionService hourcorrection.CorrectionService
}

func NewAdjustmentHandler(
	advanceService advance.AdvanceService,
	overtimeService overtime.OvertimeService,
	correctionService hourcorrection.CorrectionService,
) AdjustmentHandler {
	return &adjustmentHandlerImpl{
		advanceService:    advanceService,
		overtimeService:   overtimeService,
		correctionService: correctionService,
	}
}

// CreateAdvance implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req advance.CreateAdvanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.advanceService.Create(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advance recorded", payment)
}

// ListAdvances implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) ListAdvances(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	userID, err := targetUser(claims, r.URL.Query().Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	p := &queryParser{r: r}
	req := advance.ListAdvanceRequest{
		UserID: userID,
		Month:  p.intPtr("month"),
		Year:   p.intPtr("year"),
	}
	if err := p.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	payments, err := h.advanceService.ListByUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payments)
}

// AuthorizeOvertime implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) AuthorizeOvertime(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req overtime.AuthorizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	allowance, err := h.overtimeService.Authorize(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime authorized", allowance)
}

// ListOvertime implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) ListOvertime(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	userID, err := targetUser(claims, r.URL.Query().Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	p := &queryParser{r: r}
	req := overtime.ListOvertimeRequest{
		UserID: userID,
		Month:  p.int("month", 0),
		Year:   p.int("year", 0),
	}
	if err := p.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	allowances, err := h.overtimeService.ListByUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, allowances)
}

// RecordCorrection implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) RecordCorrection(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	var req hourcorrection.RecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	correction, err := h.correctionService.Record(r.Context(), &claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Hour correction recorded", correction)
}

// UpdateCorrection implements AdjustmentHandler.
func (h *adjustmentHandlerImpl) UpdateCorrection(w http.ResponseWriter, r *http.Request) {
	var req hourcorrection.UpdateHoursRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	correction, err := h.correctionService.UpdateHours(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour correction updated", correction)
}

// ListCorrections implements AdjustmentHandler. Non-admins only see their own.
func (h *adjustmentHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	p := &queryParser{r: r}
	req := hourcorrection.ListRequest{
		UserID:  queryString(r, "user_id"),
		Month:   p.intPtr("month"),
		Year:    p.intPtr("year"),
		Page:    p.int("page", 1),
		PerPage: p.int("per_page", 20),
	}
	if err := p.err(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.Role.IsAdmin() {
		if req.UserID != nil && *req.UserID != claims.UserID {
			response.HandleError(w, user.ErrForbiddenUserResource)
			return
		}
		req.UserID = &claims.UserID
	}

	result, err := h.correctionService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Corrections, &response.Meta{
		Page:       result.Page,
		Limit:      result.PerPage,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}
