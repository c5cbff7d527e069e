package deduction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

type DeductionServiceImpl struct {
	tx database.Transactor
	deduction.DeductionRepository
	snapshots deduction.SnapshotRepository
	now       func() time.Time
}

func NewDeductionService(tx database.Transactor, repo deduction.DeductionRepository, snapshots deduction.SnapshotRepository) deduction.DeductionService {
	return &DeductionServiceImpl{
		tx:                  tx,
		DeductionRepository: repo,
		snapshots:           snapshots,
		now:                 time.Now,
	}
}

// SetDeduction implements deduction.DeductionService. Creating a deduction or
// changing its percentage closes the open snapshot and opens a new one.
func (s *DeductionServiceImpl) SetDeduction(ctx context.Context, req deduction.SetDeductionRequest) (deduction.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.DeductionResponse{}, err
	}

	var result deduction.Statutory
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := s.now()
		current, err := s.DeductionRepository.GetByNameForUpdate(ctx, req.Name)
		switch {
		case errors.Is(err, deduction.ErrDeductionNotFound):
			result, err = s.DeductionRepository.Create(ctx, deduction.Statutory{Name: req.Name, Percentage: req.Percentage})
			if err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to load deduction: %w", err)
		default:
			result = current
			if current.Percentage.Equal(req.Percentage) {
				return nil
			}
			if err := s.DeductionRepository.UpdatePercentage(ctx, current.ID, req.Percentage); err != nil {
				return fmt.Errorf("failed to update deduction: %w", err)
			}
			if err := s.snapshots.CloseOpen(ctx, current.ID, now); err != nil {
				return fmt.Errorf("failed to close deduction snapshot: %w", err)
			}
			result.Percentage = req.Percentage
			result.UpdatedAt = now
		}

		if _, err := s.snapshots.Create(ctx, deduction.Snapshot{
			DeductionID:   result.ID,
			Name:          result.Name,
			Percentage:    result.Percentage,
			EffectiveFrom: now,
		}); err != nil {
			return fmt.Errorf("failed to open deduction snapshot: %w", err)
		}
		slog.Info("deduction set", "name", result.Name, "percentage", result.Percentage.String())
		return nil
	})
	if err != nil {
		return deduction.DeductionResponse{}, err
	}

	return deduction.NewDeductionResponse(result), nil
}

// GetDeduction implements deduction.DeductionService.
func (s *DeductionServiceImpl) GetDeduction(ctx context.Context, name string) (deduction.DeductionResponse, error) {
	d, err := s.DeductionRepository.GetByName(ctx, name)
	if err != nil {
		return deduction.DeductionResponse{}, err
	}
	return deduction.NewDeductionResponse(d), nil
}

// List implements deduction.DeductionService.
func (s *DeductionServiceImpl) List(ctx context.Context) ([]deduction.DeductionResponse, error) {
	all, err := s.DeductionRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	resp := make([]deduction.DeductionResponse, 0, len(all))
	for _, d := range all {
		resp = append(resp, deduction.NewDeductionResponse(d))
	}
	return resp, nil
}

// Delete implements deduction.DeductionService. The open snapshot is closed at
// the deletion instant so payslips of earlier periods still see the rate.
func (s *DeductionServiceImpl) Delete(ctx context.Context, name string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := s.now()
		d, err := s.DeductionRepository.GetByNameForUpdate(ctx, name)
		if err != nil {
			return err
		}
		if err := s.snapshots.CloseOpen(ctx, d.ID, now); err != nil {
			return fmt.Errorf("failed to close deduction snapshot: %w", err)
		}
		if err := s.DeductionRepository.Delete(ctx, d.ID, now); err != nil {
			return fmt.Errorf("failed to delete deduction: %w", err)
		}
		slog.Info("deduction deleted", "name", d.Name)
		return nil
	})
}

// History implements deduction.DeductionService. Newest snapshot first.
func (s *DeductionServiceImpl) History(ctx context.Context, name string) ([]deduction.SnapshotResponse, error) {
	d, err := s.DeductionRepository.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.ListByDeduction(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction snapshots: %w", err)
	}
	resp := make([]deduction.SnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		resp = append(resp, deduction.NewSnapshotResponse(snap))
	}
	return resp, nil
}
