package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/middleware"
	"github.com/atuta-hr/attendance-payroll-go/internal/handler/http/response"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/validator"
)

const maxBodyBytes = 12 << 20 // base64 clock-in photos

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// claimsOrFail writes a 401 and returns false when the request carries no
// usable claims.
func claimsOrFail(w http.ResponseWriter, r *http.Request) (middleware.Claims, bool) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return middleware.Claims{}, false
	}
	return claims, true
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

type queryParser struct {
	r    *http.Request
	errs validator.ValidationErrors
}

func (p *queryParser) int(key string, fallback int) int {
	v := p.r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, validator.ValidationError{Field: key, Message: key + " must be an integer"})
		return fallback
	}
	return n
}

func (p *queryParser) intPtr(key string) *int {
	if p.r.URL.Query().Get(key) == "" {
		return nil
	}
	n := p.int(key, 0)
	return &n
}

func (p *queryParser) err() error {
	if len(p.errs) > 0 {
		return p.errs
	}
	return nil
}
