package workinghours

import "errors"

var (
	ErrWorkingHoursNotFound = errors.New("working_hours_not_found")
	ErrInvalidDay           = errors.New("invalid_day")
	ErrInvalidTime          = errors.New("invalid_time")
)
