package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/advance"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/hourcorrection"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/overtime"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// Advances

const advanceColumns = `a.id, a.user_id, a.amount, a.month, a.year, a.approved_by, a.remarks, a.created_at, approver.full_name`

func scanAdvance(row rowScanner) (advance.Payment, error) {
	var p advance.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Month, &p.Year, &p.ApprovedByID, &p.Remarks, &p.CreatedAt, &p.ApprovedByName)
	return p, err
}

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

// Create implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) Create(ctx context.Context, p advance.Payment) (advance.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH a AS (
			INSERT INTO advance_payments (user_id, amount, month, year, approved_by, remarks)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + advanceColumns + `
		FROM a
		LEFT JOIN users approver ON approver.id = a.approved_by`

	created, err := scanAdvance(q.QueryRow(ctx, query, p.UserID, p.Amount, p.Month, p.Year, p.ApprovedByID, p.Remarks))
	if err != nil {
		return advance.Payment{}, fmt.Errorf("failed to create advance payment: %w", err)
	}
	return created, nil
}

// ListByUser implements advance.AdvanceRepository. Newest first.
func (r *advanceRepositoryImpl) ListByUser(ctx context.Context, userID string, month, year *int) ([]advance.Payment, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"a.user_id = $1"}
	args := []interface{}{userID}
	argIdx := 2

	if month != nil {
		where = append(where, fmt.Sprintf("a.month = $%d", argIdx))
		args = append(args, *month)
		argIdx++
	}
	if year != nil {
		where = append(where, fmt.Sprintf("a.year = $%d", argIdx))
		args = append(args, *year)
	}

	query := `
		SELECT ` + advanceColumns + `
		FROM advance_payments a
		LEFT JOIN users approver ON approver.id = a.approved_by
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance payments: %w", err)
	}
	defer rows.Close()

	payments := []advance.Payment{}
	for rows.Next() {
		p, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// TotalForPeriod implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) TotalForPeriod(ctx context.Context, userID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM advance_payments
		WHERE user_id = $1 AND month = $2 AND year = $3`, userID, month, year).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum advance payments: %w", err)
	}
	return total, nil
}

// Overtime

const overtimeColumns = `id, user_id, date, month, year, hours, amount, approved_by, remarks, created_at`

func scanOvertime(row rowScanner) (overtime.Allowance, error) {
	var a overtime.Allowance
	err := row.Scan(&a.ID, &a.UserID, &a.Date, &a.Month, &a.Year, &a.Hours, &a.Amount, &a.ApprovedByID, &a.Remarks, &a.CreatedAt)
	return a, err
}

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

// Create implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) Create(ctx context.Context, a overtime.Allowance) (overtime.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanOvertime(q.QueryRow(ctx, `
		INSERT INTO overtime_allowances (user_id, date, month, year, hours, amount, approved_by, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+overtimeColumns,
		a.UserID, a.Date, a.Month, a.Year, a.Hours, a.Amount, a.ApprovedByID, a.Remarks,
	))
	if err != nil {
		return overtime.Allowance{}, fmt.Errorf("failed to create overtime allowance: %w", err)
	}
	return created, nil
}

// ListByUser implements overtime.OvertimeRepository. Oldest first.
func (r *overtimeRepositoryImpl) ListByUser(ctx context.Context, userID string, month, year int) ([]overtime.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+overtimeColumns+`
		FROM overtime_allowances
		WHERE user_id = $1 AND month = $2 AND year = $3
		ORDER BY date ASC, created_at ASC`, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime allowances: %w", err)
	}
	defer rows.Close()

	allowances := []overtime.Allowance{}
	for rows.Next() {
		a, err := scanOvertime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime allowance: %w", err)
		}
		allowances = append(allowances, a)
	}
	return allowances, rows.Err()
}

// TotalForPeriod implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) TotalForPeriod(ctx context.Context, userID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM overtime_allowances
		WHERE user_id = $1 AND month = $2 AND year = $3`, userID, month, year).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum overtime allowances: %w", err)
	}
	return total, nil
}

// Hour corrections

const correctionColumns = `
	c.id, c.user_id, c.date, c.month, c.year, c.hours, c.hourly_rate, c.amount,
	c.reason, c.corrected_by, c.created_at, c.updated_at, u.full_name, u.email`

func scanCorrection(row rowScanner) (hourcorrection.Correction, error) {
	var c hourcorrection.Correction
	err := row.Scan(
		&c.ID, &c.UserID, &c.Date, &c.Month, &c.Year, &c.Hours, &c.HourlyRate, &c.Amount,
		&c.Reason, &c.CorrectedByID, &c.CreatedAt, &c.UpdatedAt, &c.UserFullName, &c.UserEmail,
	)
	return c, err
}

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) hourcorrection.CorrectionRepository {
	return &correctionRepositoryImpl{db: db}
}

// Create implements hourcorrection.CorrectionRepository.
func (r *correctionRepositoryImpl) Create(ctx context.Context, c hourcorrection.Correction) (hourcorrection.Correction, error) {
	q := GetQuerier(ctx, r.db)
	c.Recalculate()

	query := `
		WITH c AS (
			INSERT INTO hour_corrections (user_id, date, month, year, hours, hourly_rate, amount, reason, corrected_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)
		SELECT ` + correctionColumns + `
		FROM c
		LEFT JOIN users u ON u.id = c.user_id`

	created, err := scanCorrection(q.QueryRow(ctx, query,
		c.UserID, c.Date, c.Month, c.Year, c.Hours, c.HourlyRate, c.Amount, c.Reason, c.CorrectedByID,
	))
	if err != nil {
		return hourcorrection.Correction{}, fmt.Errorf("failed to create hour correction: %w", err)
	}
	return created, nil
}

// GetByID implements hourcorrection.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (hourcorrection.Correction, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanCorrection(q.QueryRow(ctx, `
		SELECT `+correctionColumns+`
		FROM hour_corrections c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return hourcorrection.Correction{}, hourcorrection.ErrCorrectionNotFound
		}
		return hourcorrection.Correction{}, fmt.Errorf("failed to get hour correction: %w", err)
	}
	return c, nil
}

// Update implements hourcorrection.CorrectionRepository.
func (r *correctionRepositoryImpl) Update(ctx context.Context, c hourcorrection.Correction) (hourcorrection.Correction, error) {
	q := GetQuerier(ctx, r.db)
	c.Recalculate()

	query := `
		WITH c AS (
			UPDATE hour_corrections
			SET hours = $1, hourly_rate = $2, amount = $3, reason = $4, updated_at = NOW()
			WHERE id = $5
			RETURNING *
		)
		SELECT ` + correctionColumns + `
		FROM c
		LEFT JOIN users u ON u.id = c.user_id`

	updated, err := scanCorrection(q.QueryRow(ctx, query, c.Hours, c.HourlyRate, c.Amount, c.Reason, c.ID))
	if err != nil {
		if isNotFound(err) {
			return hourcorrection.Correction{}, hourcorrection.ErrCorrectionNotFound
		}
		return hourcorrection.Correction{}, fmt.Errorf("failed to update hour correction: %w", err)
	}
	return updated, nil
}

func (r *correctionRepositoryImpl) query(ctx context.Context, query string, args ...any) ([]hourcorrection.Correction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hour corrections: %w", err)
	}
	defer rows.Close()

	corrections := []hourcorrection.Correction{}
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hour correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}

// List implements hourcorrection.CorrectionRepository. Newest first.
func (r *correctionRepositoryImpl) List(ctx context.Context, filter hourcorrection.CorrectionFilter) ([]hourcorrection.Correction, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil {
		where = append(where, fmt.Sprintf("c.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Month != nil {
		where = append(where, fmt.Sprintf("c.month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		where = append(where, fmt.Sprintf("c.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM hour_corrections c WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count hour corrections: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM hour_corrections c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE %s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`, correctionColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	corrections, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return corrections, total, nil
}

// ListByUserPeriod implements hourcorrection.CorrectionRepository.
func (r *correctionRepositoryImpl) ListByUserPeriod(ctx context.Context, userID string, month, year int) ([]hourcorrection.Correction, error) {
	return r.query(ctx, `
		SELECT `+correctionColumns+`
		FROM hour_corrections c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1 AND c.month = $2 AND c.year = $3
		ORDER BY c.date ASC, c.created_at ASC`, userID, month, year)
}

// ExistsForReasonOnDate implements hourcorrection.CorrectionRepository.
func (r *correctionRepositoryImpl) ExistsForReasonOnDate(ctx context.Context, userID, reason string, date string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM hour_corrections
			WHERE user_id = $1 AND reason = $2 AND date = $3::date
		)`, userID, reason, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check hour correction: %w", err)
	}
	return exists, nil
}
