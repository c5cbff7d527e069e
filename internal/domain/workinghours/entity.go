package workinghours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // windows default to Africa/Nairobi on hosts without zoneinfo

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

const DefaultTimezone = "Africa/Nairobi"

// Config is the working window of one role on one ISO weekday (1 = Monday).
type Config struct {
	ID        string
	DayOfWeek int
	Role      user.Role
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
	Timezone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ISOWeekday maps time.Weekday to 1..7 with Monday = 1.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

var dayNames = map[string]int{
	"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4,
	"friday": 5, "saturday": 6, "sunday": 7,
}

// ParseDay accepts a weekday name ("monday") or an ISO number ("1").
func ParseDay(s string) (int, error) {
	if d, ok := dayNames[strings.ToLower(s)]; ok {
		return d, nil
	}
	if d, err := strconv.Atoi(s); err == nil && d >= 1 && d <= 7 {
		return d, nil
	}
	return 0, ErrInvalidDay
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BoundsOn returns the start and end instants of the window on the local
// calendar day of at.
func (c Config) BoundsOn(at time.Time) (time.Time, time.Time, error) {
	loc := c.Location()
	local := at.In(loc)
	start, err := time.Parse("15:04", c.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start time %q: %w", c.StartTime, err)
	}
	end, err := time.Parse("15:04", c.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end time %q: %w", c.EndTime, err)
	}
	y, m, d := local.Date()
	return time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, loc),
		time.Date(y, m, d, end.Hour(), end.Minute(), 0, 0, loc), nil
}

// Duration is the length of the window.
func (c Config) Duration() (time.Duration, error) {
	start, err := time.Parse("15:04", c.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := time.Parse("15:04", c.EndTime)
	if err != nil {
		return 0, err
	}
	return end.Sub(start), nil
}

// Contains reports whether the "HH:MM" clock value is inside the window, inclusive.
func (c Config) Contains(clock string) (bool, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return false, ErrInvalidTime
	}
	start, err := time.Parse("15:04", c.StartTime)
	if err != nil {
		return false, err
	}
	end, err := time.Parse("15:04", c.EndTime)
	if err != nil {
		return false, err
	}
	return !t.Before(start) && !t.After(end), nil
}
