package hourcorrection

import "errors"

var (
	ErrCorrectionNotFound = errors.New("hour_correction_not_found")
)
