package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

type AdvanceServiceImpl struct {
	tx database.Transactor
	advance.AdvanceRepository
	user.UserRepository
	rate.RateRepository
	loc *time.Location
	now func() time.Time
}

// Create implements advance.AdvanceService. Month and year default to the
// current local period. When the role has a positive advance limit, the
// period's advances including this one must stay within it.
func (s *AdvanceServiceImpl) Create(ctx context.Context, approverID string, req advance.CreateAdvanceRequest) (advance.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.PaymentResponse{}, err
	}

	now := s.now().In(s.loc)
	month, year := int(now.Month()), now.Year()
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}

	var created advance.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Serialises advances per user so the limit check sees every prior row.
		u, err := s.UserRepository.GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}

		setting, err := s.RateRepository.GetByRole(ctx, u.Role)
		switch {
		case errors.Is(err, rate.ErrRateNotFound):
		case err != nil:
			return fmt.Errorf("failed to load rate setting: %w", err)
		case setting.AdvanceLimit.IsPositive():
			taken, err := s.AdvanceRepository.TotalForPeriod(ctx, u.ID, month, year)
			if err != nil {
				return fmt.Errorf("failed to total advances: %w", err)
			}
			if taken.Add(req.Amount).GreaterThan(setting.AdvanceLimit) {
				return advance.ErrAdvanceLimitExceeded
			}
		}

		p := advance.Payment{
			UserID:  u.ID,
			Amount:  req.Amount,
			Month:   month,
			Year:    year,
			Remarks: req.Remarks,
		}
		if approverID != "" {
			p.ApprovedByID = &approverID
		}
		created, err = s.AdvanceRepository.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to create advance: %w", err)
		}
		return nil
	})
	if err != nil {
		return advance.PaymentResponse{}, err
	}

	slog.Info("advance payment recorded",
		"user_id", created.UserID,
		"amount", created.Amount.String(),
		"month", created.Month,
		"year", created.Year,
		"approved_by", approverID,
	)
	return advance.NewPaymentResponse(created), nil
}

// ListByUser implements advance.AdvanceService.
func (s *AdvanceServiceImpl) ListByUser(ctx context.Context, req advance.ListAdvanceRequest) ([]advance.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.AdvanceRepository.ListByUser(ctx, req.UserID, req.Month, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	resp := make([]advance.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, advance.NewPaymentResponse(p))
	}
	return resp, nil
}

func NewAdvanceService(
	tx database.Transactor,
	advanceRepo advance.AdvanceRepository,
	userRepo user.UserRepository,
	rateRepo rate.RateRepository,
	loc *time.Location,
) advance.AdvanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdvanceServiceImpl{
		tx:                tx,
		AdvanceRepository: advanceRepo,
		UserRepository:    userRepo,
		RateRepository:    rateRepo,
		loc:               loc,
		now:               time.Now,
	}
}
