package repository

import (
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

func (r *Repository) CreateAbsence(a *domain.Absence) error {
	query := `
		INSERT INTO absences (employee_id, type, start_date, end_date, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{a.EmployeeID, a.Type, a.StartDate, a.EndDate, a.Note}
	dst := []any{&a.ID, &a.CreatedAt, &a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAbsenceByID(id int64) (*domain.Absence, error) {
	query := `
		SELECT employee_id, type, start_date, end_date, note, created_at, version
		FROM absences WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	a := &domain.Absence{ID: id}
	dst := []any{&a.EmployeeID, &a.Type, &a.StartDate, &a.EndDate, &a.Note, &a.CreatedAt, &a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return a, nil
}

// GetAbsencesOverlapping returns every absence that touches the inclusive
// date range [start, end].
func (r *Repository) GetAbsencesOverlapping(start, end time.Time) ([]*domain.Absence, error) {
	query := `
		SELECT id, employee_id, type, start_date, end_date, note, created_at, version
		FROM absences
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences := []*domain.Absence{}
	for rows.Next() {
		var a domain.Absence
		dst := []any{&a.ID, &a.EmployeeID, &a.Type, &a.StartDate, &a.EndDate, &a.Note, &a.CreatedAt, &a.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		absences = append(absences, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return absences, nil
}

func (r *Repository) DeleteAbsence(id int64) error {
	query := `
		DELETE FROM absences WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
