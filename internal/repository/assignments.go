package repository

import (
	"fmt"
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

const assignmentColumns = `
	id, employee_id, shift_type_id, shift_date, is_manual, is_substitute, is_fixed, created_at, version
`

func (r *Repository) CreateAssignment(a *domain.ShiftAssignment) error {
	query := `
		INSERT INTO shift_assignments (employee_id, shift_type_id, shift_date, is_manual, is_substitute, is_fixed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		a.EmployeeID,
		a.ShiftTypeID,
		a.Date.Format(domain.DateLayout),
		a.IsManual,
		a.IsSubstitute,
		a.IsFixed,
	}
	dst := []any{&a.ID, &a.CreatedAt, &a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) scanAssignments(query string, args ...any) ([]*domain.ShiftAssignment, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*domain.ShiftAssignment{}
	for rows.Next() {
		var a domain.ShiftAssignment
		dst := []any{
			&a.ID, &a.EmployeeID, &a.ShiftTypeID, &a.Date,
			&a.IsManual, &a.IsSubstitute, &a.IsFixed, &a.CreatedAt, &a.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		a.Date = domain.NormalizeDate(a.Date)
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAssignmentsInRange(start, end time.Time) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE shift_date BETWEEN $1 AND $2
		ORDER BY shift_date, shift_type_id, employee_id
	`

	return r.scanAssignments(query, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
}

func (r *Repository) GetAssignmentsByDate(date time.Time) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE shift_date = $1
		ORDER BY shift_type_id, employee_id
	`

	return r.scanAssignments(query, date.Format(domain.DateLayout))
}

func (r *Repository) GetAssignmentsByEmployeeInRange(employeeID int64, start, end time.Time) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE employee_id = $1 AND shift_date BETWEEN $2 AND $3
		ORDER BY shift_date
	`

	return r.scanAssignments(query, employeeID, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
}

func (r *Repository) SetAssignmentFixed(id int64, fixed bool) error {
	query := `
		UPDATE shift_assignments
		SET is_fixed = $1, version = version + 1
		WHERE id = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, fixed, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAssignment(id int64) error {
	query := `
		DELETE FROM shift_assignments WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// ReplaceAssignmentsInRange deletes every non-fixed assignment in the
// inclusive range and inserts the given plan in one transaction. An advisory
// lock keyed on the range serializes concurrent re-plans and substitute
// inserts for the same dates, so a bulk write can never interleave with a
// Springer repair. Rows colliding with a kept fixed assignment are skipped.
func (r *Repository) ReplaceAssignmentsInRange(start, end time.Time, assignments []*domain.ShiftAssignment) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockKey := fmt.Sprintf("shift_assignments:%s:%s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return err
	}

	query := `
		DELETE FROM shift_assignments
		WHERE shift_date BETWEEN $1 AND $2 AND is_fixed = FALSE
	`
	if _, err := tx.ExecContext(ctx, query, start.Format(domain.DateLayout), end.Format(domain.DateLayout)); err != nil {
		return err
	}

	query = `
		INSERT INTO shift_assignments (employee_id, shift_type_id, shift_date, is_manual, is_substitute, is_fixed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, shift_type_id, shift_date) DO NOTHING
	`
	for _, a := range assignments {
		params := []any{
			a.EmployeeID,
			a.ShiftTypeID,
			a.Date.Format(domain.DateLayout),
			a.IsManual,
			a.IsSubstitute,
			a.IsFixed,
		}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
