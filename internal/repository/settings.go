package repository

import (
	"database/sql"
	"errors"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// GetStaffingRules reads the single global settings row. A missing row yields
// the documented defaults.
func (r *Repository) GetStaffingRules() (domain.StaffingRules, error) {
	query := `
		SELECT max_consecutive_shifts, max_consecutive_night_shifts, min_rest_hours, version
		FROM staffing_rules
		LIMIT 1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var rules domain.StaffingRules
	dst := []any{
		&rules.MaxConsecutiveShifts,
		&rules.MaxConsecutiveNightShifts,
		&rules.MinRestHoursBetweenShifts,
		&rules.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultStaffingRules(), nil
		}
		return domain.StaffingRules{}, err
	}

	return rules, nil
}

func (r *Repository) UpdateStaffingRules(rules *domain.StaffingRules) error {
	query := `
		INSERT INTO staffing_rules (id, max_consecutive_shifts, max_consecutive_night_shifts, min_rest_hours)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET
			max_consecutive_shifts = EXCLUDED.max_consecutive_shifts,
			max_consecutive_night_shifts = EXCLUDED.max_consecutive_night_shifts,
			min_rest_hours = EXCLUDED.min_rest_hours,
			version = staffing_rules.version + 1
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		rules.MaxConsecutiveShifts,
		rules.MaxConsecutiveNightShifts,
		rules.MinRestHoursBetweenShifts,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&rules.Version); err != nil {
		return err
	}

	return nil
}
