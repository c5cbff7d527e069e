package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes the presented access token until its expiry.
	Logout(ctx context.Context, token string, expiresAt int64) error
}
