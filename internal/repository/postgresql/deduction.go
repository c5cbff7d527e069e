package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/deduction"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

const deductionColumns = `id, name, percentage, created_at, updated_at, deleted_at`

func scanDeduction(row rowScanner) (deduction.Statutory, error) {
	var d deduction.Statutory
	err := row.Scan(&d.ID, &d.Name, &d.Percentage, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt)
	return d, err
}

type deductionRepositoryImpl struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepositoryImpl{db: db}
}

// Create implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Create(ctx context.Context, d deduction.Statutory) (deduction.Statutory, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanDeduction(q.QueryRow(ctx, `
		INSERT INTO statutory_deductions (name, percentage)
		VALUES ($1, $2)
		RETURNING `+deductionColumns, d.Name, d.Percentage))
	if err != nil {
		if isUniqueViolation(err) {
			return deduction.Statutory{}, deduction.ErrDeductionExists
		}
		return deduction.Statutory{}, fmt.Errorf("failed to create deduction: %w", err)
	}
	return created, nil
}

// UpdatePercentage implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) UpdatePercentage(ctx context.Context, id string, percentage decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE statutory_deductions SET percentage = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, percentage, id)
	if err != nil {
		return fmt.Errorf("failed to update deduction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return deduction.ErrDeductionNotFound
	}
	return nil
}

func (r *deductionRepositoryImpl) getByName(ctx context.Context, name string, forUpdate bool) (deduction.Statutory, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deductionColumns + ` FROM statutory_deductions WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL`
	if forUpdate {
		query += " FOR UPDATE"
	}
	d, err := scanDeduction(q.QueryRow(ctx, query, name))
	if err != nil {
		if isNotFound(err) {
			return deduction.Statutory{}, deduction.ErrDeductionNotFound
		}
		return deduction.Statutory{}, fmt.Errorf("failed to get deduction: %w", err)
	}
	return d, nil
}

// GetByNameForUpdate implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) GetByNameForUpdate(ctx context.Context, name string) (deduction.Statutory, error) {
	return r.getByName(ctx, name, true)
}

// GetByName implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) GetByName(ctx context.Context, name string) (deduction.Statutory, error) {
	return r.getByName(ctx, name, false)
}

// List implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) List(ctx context.Context) ([]deduction.Statutory, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deductionColumns+` FROM statutory_deductions WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	deductions := []deduction.Statutory{}
	for rows.Next() {
		d, err := scanDeduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

// Delete implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Delete(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE statutory_deductions SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to delete deduction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return deduction.ErrDeductionNotFound
	}
	return nil
}

const deductionSnapshotColumns = `id, deduction_id, name, percentage, effective_from, effective_to, created_at`

func scanDeductionSnapshot(row rowScanner) (deduction.Snapshot, error) {
	var s deduction.Snapshot
	err := row.Scan(&s.ID, &s.DeductionID, &s.Name, &s.Percentage, &s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt)
	return s, err
}

type deductionSnapshotRepositoryImpl struct {
	db *database.DB
}

func NewDeductionSnapshotRepository(db *database.DB) deduction.SnapshotRepository {
	return &deductionSnapshotRepositoryImpl{db: db}
}

// Create implements deduction.SnapshotRepository.
func (r *deductionSnapshotRepositoryImpl) Create(ctx context.Context, s deduction.Snapshot) (deduction.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanDeductionSnapshot(q.QueryRow(ctx, `
		INSERT INTO deduction_snapshots (deduction_id, name, percentage, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+deductionSnapshotColumns,
		s.DeductionID, s.Name, s.Percentage, s.EffectiveFrom, s.EffectiveTo,
	))
	if err != nil {
		return deduction.Snapshot{}, fmt.Errorf("failed to create deduction snapshot: %w", err)
	}
	return created, nil
}

// CloseOpen implements deduction.SnapshotRepository.
func (r *deductionSnapshotRepositoryImpl) CloseOpen(ctx context.Context, deductionID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE deduction_snapshots SET effective_to = $1 WHERE deduction_id = $2 AND effective_to IS NULL`, at, deductionID)
	if err != nil {
		return fmt.Errorf("failed to close deduction snapshot: %w", err)
	}
	return nil
}

// GetAsOf implements deduction.SnapshotRepository.
func (r *deductionSnapshotRepositoryImpl) GetAsOf(ctx context.Context, deductionID string, at time.Time) (deduction.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanDeductionSnapshot(q.QueryRow(ctx, `
		SELECT `+deductionSnapshotColumns+`
		FROM deduction_snapshots
		WHERE deduction_id = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to > $2)
		ORDER BY effective_from DESC
		LIMIT 1`, deductionID, at))
	if err != nil {
		if isNotFound(err) {
			return deduction.Snapshot{}, deduction.ErrSnapshotNotFound
		}
		return deduction.Snapshot{}, fmt.Errorf("failed to get deduction snapshot: %w", err)
	}
	return s, nil
}

// ListByDeduction implements deduction.SnapshotRepository.
func (r *deductionSnapshotRepositoryImpl) ListByDeduction(ctx context.Context, deductionID string) ([]deduction.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deductionSnapshotColumns+` FROM deduction_snapshots
		WHERE deduction_id = $1
		ORDER BY effective_from DESC`, deductionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []deduction.Snapshot{}
	for rows.Next() {
		s, err := scanDeductionSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// ListInForceAt implements deduction.SnapshotRepository.
func (r *deductionSnapshotRepositoryImpl) ListInForceAt(ctx context.Context, at time.Time) ([]deduction.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deductionSnapshotColumns+` FROM deduction_snapshots
		WHERE effective_from <= $1
		  AND (effective_to IS NULL OR effective_to > $1)
		ORDER BY name, effective_from DESC`, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []deduction.Snapshot{}
	seen := map[string]bool{}
	for rows.Next() {
		s, err := scanDeductionSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction snapshot: %w", err)
		}
		if seen[s.DeductionID] {
			continue
		}
		seen[s.DeductionID] = true
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
