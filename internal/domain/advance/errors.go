package advance

import "errors"

var (
	ErrAdvanceLimitExceeded = errors.New("advance_limit_exceeded")
)
