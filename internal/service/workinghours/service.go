package workinghours

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
)

var dayKeys = map[int]string{
	1: "monday", 2: "tuesday", 3: "wednesday", 4: "thursday",
	5: "friday", 6: "saturday", 7: "sunday",
}

// defaultWindows are written by SeedDefaults for roles that have no active
// configuration yet.
var defaultWindows = map[user.Role][2]string{
	user.RoleOffice:      {"08:00", "17:00"},
	user.RoleTeaching:    {"07:30", "16:30"},
	user.RoleSubordinate: {"07:00", "17:00"},
}

type WorkingHoursServiceImpl struct {
	workinghours.WorkingHoursRepository
}

func NewWorkingHoursService(repo workinghours.WorkingHoursRepository) workinghours.WorkingHoursService {
	return &WorkingHoursServiceImpl{WorkingHoursRepository: repo}
}

// Upsert implements workinghours.WorkingHoursService.
func (s *WorkingHoursServiceImpl) Upsert(ctx context.Context, req workinghours.UpsertRequest) (workinghours.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return workinghours.ConfigResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	saved, err := s.WorkingHoursRepository.Upsert(ctx, workinghours.Config{
		DayOfWeek: req.DayOfWeek,
		Role:      user.Role(req.Role),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Timezone:  req.Timezone,
		IsActive:  isActive,
	})
	if err != nil {
		return workinghours.ConfigResponse{}, fmt.Errorf("failed to save working hours: %w", err)
	}

	slog.Info("working hours saved", "role", saved.Role, "day", saved.DayOfWeek, "start", saved.StartTime, "end", saved.EndTime)
	return workinghours.NewConfigResponse(saved), nil
}

// List implements workinghours.WorkingHoursService. The result is keyed by
// role and then by lowercase weekday name.
func (s *WorkingHoursServiceImpl) List(ctx context.Context) (map[string]map[string]workinghours.ConfigResponse, error) {
	configs, err := s.WorkingHoursRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list working hours: %w", err)
	}

	result := make(map[string]map[string]workinghours.ConfigResponse)
	for _, c := range configs {
		role := string(c.Role)
		if result[role] == nil {
			result[role] = make(map[string]workinghours.ConfigResponse)
		}
		result[role][dayKeys[c.DayOfWeek]] = workinghours.NewConfigResponse(c)
	}
	return result, nil
}

// GetHours implements workinghours.WorkingHoursService.
func (s *WorkingHoursServiceImpl) GetHours(ctx context.Context, role user.Role, day string) (workinghours.ConfigResponse, error) {
	dayOfWeek, err := workinghours.ParseDay(day)
	if err != nil {
		return workinghours.ConfigResponse{}, err
	}
	cfg, err := s.WorkingHoursRepository.GetActive(ctx, role, dayOfWeek)
	if err != nil {
		return workinghours.ConfigResponse{}, err
	}
	return workinghours.NewConfigResponse(cfg), nil
}

// IsWithinWorkingHours implements workinghours.WorkingHoursService.
func (s *WorkingHoursServiceImpl) IsWithinWorkingHours(ctx context.Context, role user.Role, day string, clock string) (bool, error) {
	dayOfWeek, err := workinghours.ParseDay(day)
	if err != nil {
		return false, err
	}
	cfg, err := s.WorkingHoursRepository.GetActive(ctx, role, dayOfWeek)
	if err != nil {
		return false, err
	}
	return cfg.Contains(strings.TrimSpace(clock))
}

// ConfigFor implements workinghours.WorkingHoursService.
func (s *WorkingHoursServiceImpl) ConfigFor(ctx context.Context, role user.Role, at time.Time) (workinghours.Config, error) {
	configs, err := s.WorkingHoursRepository.ListActiveByRole(ctx, role)
	if err != nil {
		return workinghours.Config{}, fmt.Errorf("failed to load working hours: %w", err)
	}
	for _, cfg := range configs {
		if cfg.DayOfWeek == workinghours.ISOWeekday(at.In(cfg.Location())) {
			return cfg, nil
		}
	}
	return workinghours.Config{}, workinghours.ErrWorkingHoursNotFound
}

// SeedDefaults implements workinghours.WorkingHoursService. Roles that already
// have an active window are left alone.
func (s *WorkingHoursServiceImpl) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, role := range user.Roles {
		window, ok := defaultWindows[role]
		if !ok {
			continue
		}
		existing, err := s.WorkingHoursRepository.ListActiveByRole(ctx, role)
		if err != nil {
			return created, fmt.Errorf("failed to load working hours for %s: %w", role, err)
		}
		if len(existing) > 0 {
			continue
		}
		for day := 1; day <= 5; day++ {
			if _, err := s.WorkingHoursRepository.Upsert(ctx, workinghours.Config{
				DayOfWeek: day,
				Role:      role,
				StartTime: window[0],
				EndTime:   window[1],
				Timezone:  workinghours.DefaultTimezone,
				IsActive:  true,
			}); err != nil {
				return created, fmt.Errorf("failed to seed working hours for %s: %w", role, err)
			}
			created++
		}
	}
	if created > 0 {
		slog.Info("default working hours seeded", "rows", created)
	}
	return created, nil
}
