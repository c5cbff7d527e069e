package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/auth"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// domainErrors is checked in order; the sentinel's text becomes the error code.
var domainErrors = []errorMapping{
	// Auth
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{auth.ErrAccountLocked, http.StatusForbidden, "Account is not active"},
	{user.ErrAdminAccessRequired, http.StatusForbidden, "Admin access required"},
	{user.ErrForbiddenUserResource, http.StatusForbidden, "You may only access your own records"},

	// Users
	{user.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{user.ErrRateSnapshotNotFound, http.StatusNotFound, "No rate in force at that time"},
	{user.ErrEmailExists, http.StatusConflict, "Email already registered"},
	{user.ErrInvalidLunchWindow, http.StatusBadRequest, "Invalid lunch window"},

	// Attendance
	{attendance.ErrMissingTimestamp, http.StatusBadRequest, "Timestamp is required"},
	{attendance.ErrTimestampOrder, http.StatusBadRequest, "Timestamp is before the previous event"},
	{attendance.ErrUserOnLeave, http.StatusForbidden, "User is on leave"},
	{attendance.ErrUserInactive, http.StatusForbidden, "User is not active"},
	{attendance.ErrInvalidClockInType, http.StatusUnprocessableEntity, "Invalid clock-in type"},
	{attendance.ErrInvalidPhotoData, http.StatusUnprocessableEntity, "Invalid photo data"},
	{attendance.ErrActiveSessionExists, http.StatusConflict, "You already have an active session"},
	{attendance.ErrNoActiveSession, http.StatusConflict, "No active session"},
	{attendance.ErrNoSessionAvailable, http.StatusConflict, "No session available for lunch"},
	{attendance.ErrNoLunchSession, http.StatusConflict, "No lunch in progress"},
	{attendance.ErrIncompleteSession, http.StatusConflict, "Session is incomplete"},
	{attendance.ErrSessionNotFound, http.StatusNotFound, "Session not found"},

	// Configuration
	{workinghours.ErrWorkingHoursNotFound, http.StatusNotFound, "Working hours not configured"},
	{workinghours.ErrInvalidDay, http.StatusBadRequest, "Invalid day"},
	{workinghours.ErrInvalidTime, http.StatusBadRequest, "Invalid time"},
	{rate.ErrRateNotFound, http.StatusNotFound, "Rate not configured for role"},
	{deduction.ErrDeductionNotFound, http.StatusNotFound, "Deduction not found"},
	{deduction.ErrSnapshotNotFound, http.StatusNotFound, "No deduction in force at that time"},
	{deduction.ErrDeductionExists, http.StatusConflict, "Deduction already exists"},

	// Payroll inputs
	{advance.ErrAdvanceLimitExceeded, http.StatusBadRequest, "Advance limit exceeded for the period"},
	{overtime.ErrOvertimeNotFound, http.StatusNotFound, "Overtime allowance not found"},
	{hourcorrection.ErrCorrectionNotFound, http.StatusNotFound, "Hour correction not found"},
}

// payrollErrors keep their code but still answer 500.
var payrollErrors = []error{
	payroll.ErrDetailedPayslipFailed,
	payroll.ErrNetPayCalculationFailed,
	payroll.ErrPayrollSummaryFailed,
	payroll.ErrPayrollExportFailed,
}

// HandleError maps domain errors to HTTP responses. Anything unmapped is
// logged and answered with a bare server_error.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.err.Error(), m.message)
			return
		}
	}

	for _, perr := range payrollErrors {
		if errors.Is(err, perr) {
			slog.Error("payroll request failed", "error", err)
			writeError(w, http.StatusInternalServerError, perr.Error(), "Payroll could not be calculated")
			return
		}
	}

	slog.Error("unhandled error", "error", err)
	InternalServerError(w)
}
