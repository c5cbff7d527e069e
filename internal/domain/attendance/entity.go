package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClockInType string

const (
	ClockInRegular  ClockInType = "regular"
	ClockInOvertime ClockInType = "overtime"
)

func (t ClockInType) IsValid() bool {
	return t == ClockInRegular || t == ClockInOvertime
}

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// AutoClockOutNote prefixes the notes of sessions closed by the end-of-day sweep.
const AutoClockOutNote = "Auto clock-out"

// Session is one clock-in. A user has at most one session with StatusOpen.
type Session struct {
	ID           string
	UserID       string
	Date         time.Time
	ClockInTime  time.Time
	LunchIn      *time.Time
	LunchOut     *time.Time
	ClockOutTime *time.Time
	ClockInType  ClockInType
	Status       Status
	TotalHours   *decimal.Decimal
	Notes        *string
	PhotoPath    *string
	AutoClosed   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Session) IsOpen() bool {
	return s.Status == StatusOpen && s.ClockOutTime == nil
}

var secondsPerHour = decimal.NewFromInt(3600)

// ElapsedHours returns (to - from) in hours rounded to two decimals.
func ElapsedHours(from, to time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(to.Sub(from).Milliseconds()).Div(decimal.NewFromInt(1000))
	return seconds.Div(secondsPerHour).Round(2)
}

// CalculateTotalHours is worked time with the lunch break removed when both
// lunch stamps exist. The stored Session.TotalHours never subtracts lunch.
func CalculateTotalHours(s Session) (decimal.Decimal, error) {
	if s.ClockOutTime == nil {
		return decimal.Zero, ErrIncompleteSession
	}
	total := s.ClockOutTime.Sub(s.ClockInTime)
	if s.LunchIn != nil && s.LunchOut != nil {
		total -= s.LunchOut.Sub(*s.LunchIn)
	}
	return ElapsedHours(s.ClockInTime, s.ClockInTime.Add(total)), nil
}

// DateOf returns the calendar day of t in loc as a UTC midnight, the shape a
// DATE column scans into.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
