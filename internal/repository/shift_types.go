package repository

import (
	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// Active weekdays are stored as a bitmask, bit i = time.Weekday i (Sunday = 0).
func encodeWeekdays(days [7]bool) int32 {
	var mask int32
	for i, active := range days {
		if active {
			mask |= 1 << i
		}
	}
	return mask
}

func decodeWeekdays(mask int32) [7]bool {
	var days [7]bool
	for i := range days {
		days[i] = mask&(1<<i) != 0
	}
	return days
}

func (r *Repository) CreateShiftType(st *domain.ShiftType) error {
	query := `
		INSERT INTO shift_types (
			code,
			name,
			start_time,
			end_time,
			duration_hours,
			weekly_hours,
			active_weekdays,
			min_staff_weekday,
			max_staff_weekday,
			min_staff_weekend,
			max_staff_weekend,
			is_night
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		st.Code,
		st.Name,
		st.StartTime,
		st.EndTime,
		st.DurationHours,
		st.WeeklyHours,
		encodeWeekdays(st.ActiveWeekdays),
		st.MinStaffWeekday,
		st.MaxStaffWeekday,
		st.MinStaffWeekend,
		st.MaxStaffWeekend,
		st.IsNight,
	}
	dst := []any{&st.ID, &st.CreatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

const shiftTypeColumns = `
	id, code, name, start_time, end_time, duration_hours, weekly_hours,
	active_weekdays, min_staff_weekday, max_staff_weekday,
	min_staff_weekend, max_staff_weekend, is_night, created_at, version
`

func scanShiftType(scan func(dst ...any) error) (*domain.ShiftType, error) {
	var st domain.ShiftType
	var weekdays int32

	dst := []any{
		&st.ID, &st.Code, &st.Name, &st.StartTime, &st.EndTime, &st.DurationHours,
		&st.WeeklyHours, &weekdays, &st.MinStaffWeekday, &st.MaxStaffWeekday,
		&st.MinStaffWeekend, &st.MaxStaffWeekend, &st.IsNight, &st.CreatedAt, &st.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	st.ActiveWeekdays = decodeWeekdays(weekdays)

	return &st, nil
}

func (r *Repository) GetAllShiftTypes() ([]*domain.ShiftType, error) {
	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types ORDER BY id`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftTypes := []*domain.ShiftType{}
	for rows.Next() {
		st, err := scanShiftType(rows.Scan)
		if err != nil {
			return nil, err
		}
		shiftTypes = append(shiftTypes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shiftTypes, nil
}

func (r *Repository) GetShiftTypeByID(id int64) (*domain.ShiftType, error) {
	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types WHERE id = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanShiftType(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) GetShiftTypeByCode(code string) (*domain.ShiftType, error) {
	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types WHERE code = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanShiftType(r.dbpool.QueryRowContext(ctx, query, code).Scan)
}

func (r *Repository) UpdateShiftType(st *domain.ShiftType) error {
	query := `
		UPDATE shift_types
		SET
			code = $1,
			name = $2,
			start_time = $3,
			end_time = $4,
			duration_hours = $5,
			weekly_hours = $6,
			active_weekdays = $7,
			min_staff_weekday = $8,
			max_staff_weekday = $9,
			min_staff_weekend = $10,
			max_staff_weekend = $11,
			is_night = $12,
			version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		st.Code,
		st.Name,
		st.StartTime,
		st.EndTime,
		st.DurationHours,
		st.WeeklyHours,
		encodeWeekdays(st.ActiveWeekdays),
		st.MinStaffWeekday,
		st.MaxStaffWeekday,
		st.MinStaffWeekend,
		st.MaxStaffWeekend,
		st.IsNight,
		st.ID,
		st.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftType(id int64) error {
	query := `
		DELETE FROM shift_types WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateShiftTypeRelationship(rel *domain.ShiftTypeRelationship) error {
	query := `
		INSERT INTO shift_type_relationships (shift_type_id, related_type_id, priority)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, rel.ShiftTypeID, rel.RelatedTypeID, rel.Priority).Scan(&rel.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllShiftTypeRelationships() ([]*domain.ShiftTypeRelationship, error) {
	query := `
		SELECT id, shift_type_id, related_type_id, priority
		FROM shift_type_relationships
		ORDER BY shift_type_id, priority
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rels := []*domain.ShiftTypeRelationship{}
	for rows.Next() {
		var rel domain.ShiftTypeRelationship
		if err := rows.Scan(&rel.ID, &rel.ShiftTypeID, &rel.RelatedTypeID, &rel.Priority); err != nil {
			return nil, err
		}
		rels = append(rels, &rel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rels, nil
}

func (r *Repository) DeleteShiftTypeRelationship(id int64) error {
	query := `
		DELETE FROM shift_type_relationships WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
