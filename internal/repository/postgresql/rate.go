package postgresql

import (
	"context"
	"fmt"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/rate"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

const rateColumns = `id, role, hourly_rate, overtime_multiplier, advance_limit, created_at, updated_at`

func scanRate(row rowScanner) (rate.Setting, error) {
	var s rate.Setting
	err := row.Scan(&s.ID, &s.Role, &s.HourlyRate, &s.OvertimeMultiplier, &s.AdvanceLimit, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type rateRepositoryImpl struct {
	db *database.DB
}

func NewRateRepository(db *database.DB) rate.RateRepository {
	return &rateRepositoryImpl{db: db}
}

// Upsert implements rate.RateRepository.
func (r *rateRepositoryImpl) Upsert(ctx context.Context, setting rate.Setting) (rate.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rate_settings (role, hourly_rate, overtime_multiplier, advance_limit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (role) DO UPDATE
		SET hourly_rate = EXCLUDED.hourly_rate,
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			advance_limit = EXCLUDED.advance_limit,
			updated_at = NOW()
		RETURNING ` + rateColumns

	saved, err := scanRate(q.QueryRow(ctx, query, setting.Role, setting.HourlyRate, setting.OvertimeMultiplier, setting.AdvanceLimit))
	if err != nil {
		return rate.Setting{}, fmt.Errorf("failed to upsert rate setting: %w", err)
	}
	return saved, nil
}

// GetByRole implements rate.RateRepository.
func (r *rateRepositoryImpl) GetByRole(ctx context.Context, role user.Role) (rate.Setting, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanRate(q.QueryRow(ctx, `SELECT `+rateColumns+` FROM rate_settings WHERE role = $1`, role))
	if err != nil {
		if isNotFound(err) {
			return rate.Setting{}, rate.ErrRateNotFound
		}
		return rate.Setting{}, fmt.Errorf("failed to get rate setting: %w", err)
	}
	return s, nil
}

// List implements rate.RateRepository.
func (r *rateRepositoryImpl) List(ctx context.Context) ([]rate.Setting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+rateColumns+` FROM rate_settings ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate settings: %w", err)
	}
	defer rows.Close()

	settings := []rate.Setting{}
	for rows.Next() {
		s, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate setting: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
