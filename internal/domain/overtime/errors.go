package overtime

import "errors"

var (
	ErrOvertimeNotFound = errors.New("overtime_not_found")
)
