package deduction

import "errors"

var (
	ErrDeductionNotFound = errors.New("deduction_not_found")
	ErrDeductionExists   = errors.New("deduction_exists")
	ErrSnapshotNotFound  = errors.New("deduction_snapshot_not_found")
)
