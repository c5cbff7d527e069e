package middleware

import (
	"context"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/auth"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type Claims struct {
	UserID    string
	Email     string
	Role      user.Role
	ExpiresAt int64
}

func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, auth.ErrInvalidToken
	}

	userID, ok := raw["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, auth.ErrInvalidToken
	}
	email, _ := raw["email"].(string)
	role, _ := raw["role"].(string)

	return Claims{
		UserID:    userID,
		Email:     email,
		Role:      user.Role(role),
		ExpiresAt: token.Expiration().Unix(),
	}, nil
}
