package postgresql

import (
	"context"
	"fmt"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/workinghours"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
)

const workingHoursColumns = `id, day_of_week, role, start_time, end_time, timezone, is_active, created_at, updated_at`

func scanWorkingHours(row rowScanner) (workinghours.Config, error) {
	var c workinghours.Config
	err := row.Scan(&c.ID, &c.DayOfWeek, &c.Role, &c.StartTime, &c.EndTime, &c.Timezone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type workingHoursRepositoryImpl struct {
	db *database.DB
}

func NewWorkingHoursRepository(db *database.DB) workinghours.WorkingHoursRepository {
	return &workingHoursRepositoryImpl{db: db}
}

// Upsert implements workinghours.WorkingHoursRepository.
func (r *workingHoursRepositoryImpl) Upsert(ctx context.Context, cfg workinghours.Config) (workinghours.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO working_hours (day_of_week, role, start_time, end_time, timezone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (day_of_week, role, timezone) DO UPDATE
		SET start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING ` + workingHoursColumns

	saved, err := scanWorkingHours(q.QueryRow(ctx, query,
		cfg.DayOfWeek, cfg.Role, cfg.StartTime, cfg.EndTime, cfg.Timezone, cfg.IsActive,
	))
	if err != nil {
		return workinghours.Config{}, fmt.Errorf("failed to upsert working hours: %w", err)
	}
	return saved, nil
}

func (r *workingHoursRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]workinghours.Config, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query working hours: %w", err)
	}
	defer rows.Close()

	configs := []workinghours.Config{}
	for rows.Next() {
		c, err := scanWorkingHours(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan working hours: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// List implements workinghours.WorkingHoursRepository.
func (r *workingHoursRepositoryImpl) List(ctx context.Context) ([]workinghours.Config, error) {
	return r.query(ctx, `SELECT `+workingHoursColumns+` FROM working_hours ORDER BY role, day_of_week`)
}

// ListActiveByRole implements workinghours.WorkingHoursRepository.
func (r *workingHoursRepositoryImpl) ListActiveByRole(ctx context.Context, role user.Role) ([]workinghours.Config, error) {
	return r.query(ctx, `SELECT `+workingHoursColumns+` FROM working_hours
		WHERE role = $1 AND is_active
		ORDER BY day_of_week`, role)
}

// GetActive implements workinghours.WorkingHoursRepository.
func (r *workingHoursRepositoryImpl) GetActive(ctx context.Context, role user.Role, dayOfWeek int) (workinghours.Config, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanWorkingHours(q.QueryRow(ctx, `SELECT `+workingHoursColumns+` FROM working_hours
		WHERE role = $1 AND day_of_week = $2 AND is_active
		ORDER BY timezone
		LIMIT 1`, role, dayOfWeek))
	if err != nil {
		if isNotFound(err) {
			return workinghours.Config{}, workinghours.ErrWorkingHoursNotFound
		}
		return workinghours.Config{}, fmt.Errorf("failed to get working hours: %w", err)
	}
	return c, nil
}
