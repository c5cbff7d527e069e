package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user_not_found")
	ErrEmailExists           = errors.New("email_already_exists")
	ErrInvalidLunchWindow    = errors.New("invalid_lunch_window")
	ErrAdminAccessRequired   = errors.New("admin_access_required")
	ErrRateSnapshotNotFound  = errors.New("rate_snapshot_not_found")
	ErrForbiddenUserResource = errors.New("forbidden")
)
