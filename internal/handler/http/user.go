package http

import (
	"net/http"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/middleware"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateHourlyRate(w http.ResponseWriter, r *http.Request)
	UpdateFlags(w http.ResponseWriter, r *http.Request)
	UpdateLunchWindow(w http.ResponseWriter, r *http.Request)
	GetRateHistory(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// Create implements UserHandler.
func (h *userHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.userService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created", created)
}

// Get implements UserHandler. Staff may read their own record only.
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if !canAccessUser(claims, id) {
		response.HandleError(w, user.ErrForbiddenUserResource)
		return
	}

	u, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, u)
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := &queryParser{r: r}
	req := user.ListUserRequest{
		Role:   queryString(r, "role"),
		Status: queryString(r, "status"),
		Page:   p.int("page", 1),
		Limit:  p.int("limit", 20),
	}
	if err := p.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Users, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// UpdateHourlyRate implements UserHandler.
func (h *userHandlerImpl) UpdateHourlyRate(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateHourlyRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateHourlyRate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hourly rate updated", u)
}

// UpdateFlags implements UserHandler.
func (h *userHandlerImpl) UpdateFlags(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateFlagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateFlags(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User flags updated", u)
}

// UpdateLunchWindow implements UserHandler.
func (h *userHandlerImpl) UpdateLunchWindow(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateLunchWindowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateLunchWindow(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lunch window updated", u)
}

// GetRateHistory implements UserHandler.
func (h *userHandlerImpl) GetRateHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.userService.GetRateHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

func canAccessUser(claims middleware.Claims, userID string) bool {
	return claims.Role.IsAdmin() || claims.UserID == userID
}

// targetUser resolves the user a read-only request is about. An empty query
// value means the caller; anyone else requires an admin.
func targetUser(claims middleware.Claims, requested string) (string, error) {
	if requested == "" {
		return claims.UserID, nil
	}
	if !canAccessUser(claims, requested) {
		return "", user.ErrForbiddenUserResource
	}
	return requested, nil
}
