package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/auth"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "email", Message: "required"}}, http.StatusBadRequest, "validation_error"},
		{"missing timestamp", attendance.ErrMissingTimestamp, http.StatusBadRequest, "missing_timestamp"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"admin only", user.ErrAdminAccessRequired, http.StatusForbidden, "admin_access_required"},
		{"unknown user", user.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{"duplicate clock-in", attendance.ErrActiveSessionExists, http.StatusConflict, "active_session_exists"},
		{"no session", attendance.ErrNoActiveSession, http.StatusConflict, "no_active_session"},
		{"bad photo", attendance.ErrInvalidPhotoData, http.StatusUnprocessableEntity, "invalid_photo_data"},
		{"bad type", attendance.ErrInvalidClockInType, http.StatusUnprocessableEntity, "invalid_clockin_type"},
		{"wrapped", fmt.Errorf("clock in: %w", attendance.ErrUserOnLeave), http.StatusForbidden, "user_on_leave"},
		{"payroll", fmt.Errorf("%w: %w", payroll.ErrDetailedPayslipFailed, errors.New("db down")), http.StatusInternalServerError, "detailed_payslip_failed"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_DoesNotLeakInternals(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, errors.New(`pq: relation "users" does not exist`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
	assert.Contains(t, rec.Body.String(), `"message":"server_error"`)
}
