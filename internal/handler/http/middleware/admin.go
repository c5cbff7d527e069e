package middleware

import (
	"net/http"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/auth"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
)

// RequireAdmin lets super and admin roles through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !claims.Role.IsAdmin() {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
