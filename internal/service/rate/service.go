package rate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

type RateServiceImpl struct {
	rate.RateRepository
}

func NewRateService(repo rate.RateRepository) rate.RateService {
	return &RateServiceImpl{RateRepository: repo}
}

// SetRate implements rate.RateService.
func (s *RateServiceImpl) SetRate(ctx context.Context, req rate.SetRateRequest) (rate.SettingResponse, error) {
	if err := req.Validate(); err != nil {
		return rate.SettingResponse{}, err
	}

	saved, err := s.RateRepository.Upsert(ctx, rate.Setting{
		Role:               user.Role(req.Role),
		HourlyRate:         req.HourlyRate,
		OvertimeMultiplier: *req.OvertimeMultiplier,
		AdvanceLimit:       req.AdvanceLimit,
	})
	if err != nil {
		return rate.SettingResponse{}, fmt.Errorf("failed to save rate setting: %w", err)
	}

	slog.Info("rate set",
		"role", saved.Role,
		"hourly_rate", saved.HourlyRate.String(),
		"overtime_multiplier", saved.OvertimeMultiplier.String(),
		"advance_limit", saved.AdvanceLimit.String(),
	)
	return rate.NewSettingResponse(saved), nil
}

// GetRate implements rate.RateService.
func (s *RateServiceImpl) GetRate(ctx context.Context, role user.Role) (rate.SettingResponse, error) {
	setting, err := s.RateRepository.GetByRole(ctx, role)
	if err != nil {
		return rate.SettingResponse{}, err
	}
	return rate.NewSettingResponse(setting), nil
}

// List implements rate.RateService.
func (s *RateServiceImpl) List(ctx context.Context) ([]rate.SettingResponse, error) {
	settings, err := s.RateRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate settings: %w", err)
	}
	resp := make([]rate.SettingResponse, 0, len(settings))
	for _, setting := range settings {
		resp = append(resp, rate.NewSettingResponse(setting))
	}
	return resp, nil
}
