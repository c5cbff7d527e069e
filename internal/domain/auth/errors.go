package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountLocked      = errors.New("account_inactive")
	ErrInvalidToken       = errors.New("invalid_token")
)
