package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleSuper       Role = "super"
	RoleAdmin       Role = "admin"
	RoleOffice      Role = "office"
	RoleTeaching    Role = "teaching"
	RoleSubordinate Role = "subordinate"
)

var Roles = []Role{RoleSuper, RoleAdmin, RoleOffice, RoleTeaching, RoleSubordinate}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role may manage other users and payroll.
func (r Role) IsAdmin() bool {
	return r == RoleSuper || r == RoleAdmin
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
	StatusBlocked   Status = "blocked"
)

const DefaultCurrency = "KES"

type User struct {
	ID             string
	FullName       string
	Email          string
	PasswordHash   *string
	Role           Role
	Status         Status
	IsActive       bool
	HourlyRate     decimal.Decimal
	Currency       string
	LunchStart     *int // HHMM, e.g. 1300
	LunchEnd       *int
	IsPresentToday bool
	IsOnLeave      bool
	IsOnHoliday    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanWork reports whether the account may clock in and be paid.
func (u *User) CanWork() bool {
	return u.IsActive && u.Status == StatusActive
}

// RateSnapshot is one closed-open interval of a user's hourly rate.
// EffectiveTo is nil for the snapshot currently in force.
type RateSnapshot struct {
	ID            string
	UserID        string
	HourlyRate    decimal.Decimal
	Currency      string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
}

// CoversInstant reports whether at falls inside [EffectiveFrom, EffectiveTo).
func (s RateSnapshot) CoversInstant(at time.Time) bool {
	if at.Before(s.EffectiveFrom) {
		return false
	}
	return s.EffectiveTo == nil || at.Before(*s.EffectiveTo)
}
