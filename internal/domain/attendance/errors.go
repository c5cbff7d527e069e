package attendance

import "errors"

// Attendance domain errors. The message of each is the machine-readable key
// returned to API clients.
var (
	// Clock-in / clock-out
	ErrMissingTimestamp    = errors.New("missing_timestamp")
	ErrUserOnLeave         = errors.New("user_on_leave")
	ErrInvalidClockInType  = errors.New("invalid_clockin_type")
	ErrActiveSessionExists = errors.New("active_session_exists")
	ErrInvalidPhotoData    = errors.New("invalid_photo_data")
	ErrNoActiveSession     = errors.New("no_active_session")
	ErrTimestampOrder      = errors.New("timestamp_before_previous_event")
	ErrUserInactive        = errors.New("user_inactive")

	// Lunch
	ErrNoSessionAvailable = errors.New("no_session_available")
	ErrNoLunchSession     = errors.New("no_lunch_session")

	// General
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrIncompleteSession = errors.New("incomplete_session")
)
