package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/user"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

const userColumns = `
	id, full_name, email, password_hash, role, status, is_active,
	hourly_rate, currency, lunch_start, lunch_end,
	is_present_today, is_on_leave, is_on_holiday,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.IsActive,
		&u.HourlyRate, &u.Currency, &u.LunchStart, &u.LunchEnd,
		&u.IsPresentToday, &u.IsOnLeave, &u.IsOnHoliday,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			full_name, email, password_hash, role, status, is_active,
			hourly_rate, currency, lunch_start, lunch_end,
			is_present_today, is_on_leave, is_on_holiday
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.FullName,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.Status,
		newUser.IsActive,
		newUser.HourlyRate,
		newUser.Currency,
		newUser.LunchStart,
		newUser.LunchEnd,
		newUser.IsPresentToday,
		newUser.IsOnLeave,
		newUser.IsOnHoliday,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIDForUpdate implements user.UserRepository.
func (r *userRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", strings.TrimSpace(email))
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil {
		where = append(where, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM users WHERE " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	users, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// ListPresentToday implements user.UserRepository.
func (r *userRepositoryImpl) ListPresentToday(ctx context.Context) ([]user.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE is_present_today ORDER BY created_at`)
}

// ListOnHoliday implements user.UserRepository.
func (r *userRepositoryImpl) ListOnHoliday(ctx context.Context) ([]user.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users
		WHERE is_on_holiday AND is_active AND status = 'active'
		ORDER BY created_at`)
}

// ListActive implements user.UserRepository.
func (r *userRepositoryImpl) ListActive(ctx context.Context) ([]user.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users
		WHERE is_active AND status = 'active'
		ORDER BY created_at`)
}

func (r *userRepositoryImpl) exec(ctx context.Context, query string, args ...any) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateHourlyRate implements user.UserRepository.
func (r *userRepositoryImpl) UpdateHourlyRate(ctx context.Context, id string, rate decimal.Decimal, currency string) error {
	return r.exec(ctx, `UPDATE users SET hourly_rate = $1, currency = $2, updated_at = NOW() WHERE id = $3`, rate, currency, id)
}

// UpdateFlags implements user.UserRepository.
func (r *userRepositoryImpl) UpdateFlags(ctx context.Context, id string, isOnLeave, isOnHoliday bool) error {
	return r.exec(ctx, `UPDATE users SET is_on_leave = $1, is_on_holiday = $2, updated_at = NOW() WHERE id = $3`, isOnLeave, isOnHoliday, id)
}

// UpdateLunchWindow implements user.UserRepository.
func (r *userRepositoryImpl) UpdateLunchWindow(ctx context.Context, id string, start, end *int) error {
	return r.exec(ctx, `UPDATE users SET lunch_start = $1, lunch_end = $2, updated_at = NOW() WHERE id = $3`, start, end, id)
}

// SetPresentToday implements user.UserRepository.
func (r *userRepositoryImpl) SetPresentToday(ctx context.Context, id string, present bool) error {
	return r.exec(ctx, `UPDATE users SET is_present_today = $1, updated_at = NOW() WHERE id = $2`, present, id)
}

type rateSnapshotRepositoryImpl struct {
	db *database.DB
}

func NewRateSnapshotRepository(db *database.DB) user.RateSnapshotRepository {
	return &rateSnapshotRepositoryImpl{db: db}
}

const rateSnapshotColumns = `id, user_id, hourly_rate, currency, effective_from, effective_to, created_at`

func scanRateSnapshot(row rowScanner) (user.RateSnapshot, error) {
	var s user.RateSnapshot
	err := row.Scan(&s.ID, &s.UserID, &s.HourlyRate, &s.Currency, &s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt)
	return s, err
}

// Create implements user.RateSnapshotRepository.
func (r *rateSnapshotRepositoryImpl) Create(ctx context.Context, snapshot user.RateSnapshot) (user.RateSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO user_rate_snapshots (user_id, hourly_rate, currency, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + rateSnapshotColumns

	created, err := scanRateSnapshot(q.QueryRow(ctx, query,
		snapshot.UserID, snapshot.HourlyRate, snapshot.Currency, snapshot.EffectiveFrom, snapshot.EffectiveTo,
	))
	if err != nil {
		return user.RateSnapshot{}, fmt.Errorf("failed to create rate snapshot: %w", err)
	}
	return created, nil
}

// CloseOpen implements user.RateSnapshotRepository.
func (r *rateSnapshotRepositoryImpl) CloseOpen(ctx context.Context, userID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE user_rate_snapshots SET effective_to = $1 WHERE user_id = $2 AND effective_to IS NULL`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to close rate snapshot: %w", err)
	}
	return nil
}

// GetAsOf implements user.RateSnapshotRepository.
func (r *rateSnapshotRepositoryImpl) GetAsOf(ctx context.Context, userID string, at time.Time) (user.RateSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rateSnapshotColumns + `
		FROM user_rate_snapshots
		WHERE user_id = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to > $2)
		ORDER BY effective_from DESC
		LIMIT 1`

	s, err := scanRateSnapshot(q.QueryRow(ctx, query, userID, at))
	if err != nil {
		if isNotFound(err) {
			return user.RateSnapshot{}, user.ErrRateSnapshotNotFound
		}
		return user.RateSnapshot{}, fmt.Errorf("failed to get rate snapshot: %w", err)
	}
	return s, nil
}

// ListByUser implements user.RateSnapshotRepository.
func (r *rateSnapshotRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]user.RateSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+rateSnapshotColumns+` FROM user_rate_snapshots WHERE user_id = $1 ORDER BY effective_from DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []user.RateSnapshot{}
	for rows.Next() {
		s, err := scanRateSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
