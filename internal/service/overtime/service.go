package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
)

type OvertimeServiceImpl struct {
	overtime.OvertimeRepository
	user.UserRepository
	rate.RateRepository
}

// Authorize implements overtime.OvertimeService. Without an explicit amount the
// pay is hours x the user's hourly rate x the role's overtime multiplier.
func (s *OvertimeServiceImpl) Authorize(ctx context.Context, approverID string, req overtime.AuthorizeRequest) (overtime.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.AllowanceResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return overtime.AllowanceResponse{}, err
	}

	amount := req.Amount
	if amount == nil {
		multiplier := rate.DefaultOvertimeMultiplier
		setting, err := s.RateRepository.GetByRole(ctx, u.Role)
		switch {
		case err == nil:
			multiplier = setting.OvertimeMultiplier
		case !errors.Is(err, rate.ErrRateNotFound):
			return overtime.AllowanceResponse{}, fmt.Errorf("failed to load rate setting: %w", err)
		}
		derived := req.Hours.Mul(u.HourlyRate).Mul(multiplier).Round(2)
		amount = &derived
	}

	a := overtime.Allowance{
		UserID:  u.ID,
		Date:    req.ParsedDate,
		Month:   int(req.ParsedDate.Month()),
		Year:    req.ParsedDate.Year(),
		Hours:   req.Hours,
		Amount:  *amount,
		Remarks: req.Remarks,
	}
	if approverID != "" {
		a.ApprovedByID = &approverID
	}

	created, err := s.OvertimeRepository.Create(ctx, a)
	if err != nil {
		return overtime.AllowanceResponse{}, fmt.Errorf("failed to record overtime: %w", err)
	}

	slog.Info("overtime authorized",
		"user_id", created.UserID,
		"date", created.Date.Format("2006-01-02"),
		"hours", created.Hours.String(),
		"amount", created.Amount.String(),
	)
	return overtime.NewAllowanceResponse(created), nil
}

// ListByUser implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ListByUser(ctx context.Context, req overtime.ListOvertimeRequest) ([]overtime.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	allowances, err := s.OvertimeRepository.ListByUser(ctx, req.UserID, req.Month, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime: %w", err)
	}
	resp := make([]overtime.AllowanceResponse, 0, len(allowances))
	for _, a := range allowances {
		resp = append(resp, overtime.NewAllowanceResponse(a))
	}
	return resp, nil
}

func NewOvertimeService(overtimeRepo overtime.OvertimeRepository, userRepo user.UserRepository, rateRepo rate.RateRepository) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		OvertimeRepository: overtimeRepo,
		UserRepository:     userRepo,
		RateRepository:     rateRepo,
	}
}
