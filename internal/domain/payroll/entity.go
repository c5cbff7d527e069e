package payroll

import (
	"time"
)

// RateSource selects which hourly rate and deduction percentages a payslip uses.
type RateSource string

const (
	// RateSourceLive reads the values currently configured.
	RateSourceLive RateSource = "live"
	// RateSourceSnapshot reads the values in force at the end of the period,
	// falling back to live values when no snapshot covers that instant.
	RateSourceSnapshot RateSource = "snapshot"
)

func (s RateSource) IsValid() bool {
	return s == RateSourceLive || s == RateSourceSnapshot
}

// Period is a calendar month in a given location.
type Period struct {
	Month int
	Year  int
	Loc   *time.Location
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, p.location())
}

// End is the last instant of the month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func (p Period) location() *time.Location {
	if p.Loc == nil {
		return time.UTC
	}
	return p.Loc
}
