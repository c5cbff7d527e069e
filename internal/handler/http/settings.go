package http

import (
	"net/http"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// SettingsHandler serves the admin-maintained configuration: working hours,
// role rates and statutory deductions.
type SettingsHandler interface {
	ListWorkingHours(w http.ResponseWriter, r *http.Request)
	UpsertWorkingHours(w http.ResponseWriter, r *http.Request)
	CheckWorkingHours(w http.ResponseWriter, r *http.Request)

	ListRates(w http.ResponseWriter, r *http.Request)
	GetRate(w http.ResponseWriter, r *http.Request)
	SetRate(w http.ResponseWriter, r *http.Request)

	ListDeductions(w http.ResponseWriter, r *http.Request)
	GetDeduction(w http.ResponseWriter, r *http.Request)
	SetDeduction(w http.ResponseWriter, r *http.Request)
	DeleteDeduction(w http.ResponseWriter, r *http.Request)
	DeductionHistory(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	workingHoursService workinghours.WorkingHoursService
	rateService         rate.RateService
	deductionService    deduction.DeductionService
}

func NewSettingsHandler(
	workingHoursService workinghours.WorkingHoursService,
	rateService rate.RateService,
	deductionService deduction.DeductionService,
) SettingsHandler {
	return &settingsHandlerImpl{
		workingHoursService: workingHoursService,
		rateService:         rateService,
		deductionService:    deductionService,
	}
}

// ListWorkingHours implements SettingsHandler. With both role and day set it
// returns that single window instead of the full grid.
func (h *settingsHandlerImpl) ListWorkingHours(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	day := r.URL.Query().Get("day")

	if role != "" && day != "" {
		cfg, err := h.workingHoursService.GetHours(r.Context(), user.Role(role), day)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, cfg)
		return
	}

	grid, err := h.workingHoursService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, grid)
}

// UpsertWorkingHours implements SettingsHandler.
func (h *settingsHandlerImpl) UpsertWorkingHours(w http.ResponseWriter, r *http.Request) {
	var req workinghours.UpsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg, err := h.workingHoursService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Working hours saved", cfg)
}

// CheckWorkingHours implements SettingsHandler.
func (h *settingsHandlerImpl) CheckWorkingHours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs validator.ValidationErrors
	for _, key := range []string{"role", "day", "time"} {
		if q.Get(key) == "" {
			errs = append(errs, validator.ValidationError{Field: key, Message: key + " is required"})
		}
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	within, err := h.workingHoursService.IsWithinWorkingHours(r.Context(), user.Role(q.Get("role")), q.Get("day"), q.Get("time"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]bool{"within_working_hours": within})
}

// ListRates implements SettingsHandler.
func (h *settingsHandlerImpl) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rates)
}

// GetRate implements SettingsHandler.
func (h *settingsHandlerImpl) GetRate(w http.ResponseWriter, r *http.Request) {
	setting, err := h.rateService.GetRate(r.Context(), user.Role(chi.URLParam(r, "role")))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, setting)
}

// SetRate implements SettingsHandler.
func (h *settingsHandlerImpl) SetRate(w http.ResponseWriter, r *http.Request) {
	var req rate.SetRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	setting, err := h.rateService.SetRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Rate saved", setting)
}

// ListDeductions implements SettingsHandler.
func (h *settingsHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	deductions, err := h.deductionService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, deductions)
}

// GetDeduction implements SettingsHandler.
func (h *settingsHandlerImpl) GetDeduction(w http.ResponseWriter, r *http.Request) {
	d, err := h.deductionService.GetDeduction(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, d)
}

// SetDeduction implements SettingsHandler.
func (h *settingsHandlerImpl) SetDeduction(w http.ResponseWriter, r *http.Request) {
	var req deduction.SetDeductionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.deductionService.SetDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Deduction saved", d)
}

// DeleteDeduction implements SettingsHandler.
func (h *settingsHandlerImpl) DeleteDeduction(w http.ResponseWriter, r *http.Request) {
	if err := h.deductionService.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Deduction deleted", nil)
}

// DeductionHistory implements SettingsHandler.
func (h *settingsHandlerImpl) DeductionHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.deductionService.History(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}
