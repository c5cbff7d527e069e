package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	tx        database.Transactor
	users     user.UserRepository
	snapshots user.RateSnapshotRepository
	now       func() time.Time
}

func NewUserService(tx database.Transactor, users user.UserRepository, snapshots user.RateSnapshotRepository) user.UserService {
	return &UserServiceImpl{
		tx:        tx,
		users:     users,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// Create implements user.UserService. The first rate snapshot is opened with the user.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	newUser := user.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: &hashed,
		Role:         user.Role(req.Role),
		Status:       user.StatusActive,
		IsActive:     true,
		HourlyRate:   decimal.Zero,
		Currency:     user.DefaultCurrency,
	}
	if req.HourlyRate != nil {
		newUser.HourlyRate = *req.HourlyRate
	}
	if req.Currency != nil {
		newUser.Currency = strings.ToUpper(*req.Currency)
	}

	var created user.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.users.Create(ctx, newUser)
		if err != nil {
			return err
		}
		_, err = s.snapshots.Create(ctx, user.RateSnapshot{
			UserID:        created.ID,
			HourlyRate:    created.HourlyRate,
			Currency:      created.Currency,
			EffectiveFrom: s.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to open rate snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user created", "user_id", created.ID, "role", created.Role)
	return user.NewUserResponse(created), nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, req user.ListUserRequest) (user.ListUserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	filter := user.UserFilter{Page: req.Page, Limit: req.Limit}
	if req.Role != nil {
		role := user.Role(*req.Role)
		filter.Role = &role
	}
	if req.Status != nil {
		status := user.Status(*req.Status)
		filter.Status = &status
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := user.ListUserResponse{
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		Users:      make([]user.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, user.NewUserResponse(u))
	}
	return resp, nil
}

// UpdateHourlyRate implements user.UserService. A change of rate or currency
// closes the open snapshot and opens a new one in the same transaction;
// writing the same values again leaves the history untouched.
func (s *UserServiceImpl) UpdateHourlyRate(ctx context.Context, id string, req user.UpdateHourlyRateRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	var updated user.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		currency := current.Currency
		if req.Currency != nil {
			currency = strings.ToUpper(*req.Currency)
		}
		updated = current
		if current.HourlyRate.Equal(req.HourlyRate) && current.Currency == currency {
			return nil
		}

		if err := s.users.UpdateHourlyRate(ctx, id, req.HourlyRate, currency); err != nil {
			return fmt.Errorf("failed to update hourly rate: %w", err)
		}

		now := s.now()
		if err := s.snapshots.CloseOpen(ctx, id, now); err != nil {
			return fmt.Errorf("failed to close rate snapshot: %w", err)
		}
		if _, err := s.snapshots.Create(ctx, user.RateSnapshot{
			UserID:        id,
			HourlyRate:    req.HourlyRate,
			Currency:      currency,
			EffectiveFrom: now,
		}); err != nil {
			return fmt.Errorf("failed to open rate snapshot: %w", err)
		}

		slog.Info("hourly rate changed", "user_id", id, "from", current.HourlyRate.String(), "to", req.HourlyRate.String(), "currency", currency)
		updated.HourlyRate = req.HourlyRate
		updated.Currency = currency
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.NewUserResponse(updated), nil
}

// UpdateFlags implements user.UserService.
func (s *UserServiceImpl) UpdateFlags(ctx context.Context, id string, req user.UpdateFlagsRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if req.IsOnLeave != nil {
		current.IsOnLeave = *req.IsOnLeave
	}
	if req.IsOnHoliday != nil {
		current.IsOnHoliday = *req.IsOnHoliday
	}

	if err := s.users.UpdateFlags(ctx, id, current.IsOnLeave, current.IsOnHoliday); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user flags: %w", err)
	}
	return user.NewUserResponse(current), nil
}

// UpdateLunchWindow implements user.UserService.
func (s *UserServiceImpl) UpdateLunchWindow(ctx context.Context, id string, req user.UpdateLunchWindowRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := s.users.UpdateLunchWindow(ctx, id, req.LunchStart, req.LunchEnd); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update lunch window: %w", err)
	}
	current.LunchStart = req.LunchStart
	current.LunchEnd = req.LunchEnd
	return user.NewUserResponse(current), nil
}

// GetRateHistory implements user.UserService.
func (s *UserServiceImpl) GetRateHistory(ctx context.Context, id string) ([]user.RateSnapshotResponse, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.ListByUser(ctx, id)
	if err != nil && !errors.Is(err, user.ErrRateSnapshotNotFound) {
		return nil, fmt.Errorf("failed to list rate snapshots: %w", err)
	}
	resp := make([]user.RateSnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		resp = append(resp, user.NewRateSnapshotResponse(snap))
	}
	return resp, nil
}
