package rate

import "errors"

var (
	ErrRateNotFound = errors.New("rate_not_found")
)
