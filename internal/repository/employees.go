package repository

import (
	"strings"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// Capabilities are stored as a comma separated text column; an empty string
// means no special function.
func encodeCapabilities(cs domain.CapabilitySet) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ",")
}

func decodeCapabilities(s string) domain.CapabilitySet {
	if s == "" {
		return domain.CapabilitySet{}
	}
	parts := strings.Split(s, ",")
	cs := make(domain.CapabilitySet, 0, len(parts))
	for _, p := range parts {
		cs = append(cs, domain.Capability(p))
	}
	return cs
}

func (r *Repository) CreateEmployee(e *domain.Employee) error {
	query := `
		INSERT INTO employees (
			username,
			password_hash,
			first_name,
			last_name,
			email,
			role,
			team_id,
			weekly_hours,
			capabilities,
			is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		e.Username,
		e.PasswordHash,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Role,
		e.TeamID,
		e.WeeklyHours,
		encodeCapabilities(e.Capabilities),
		e.IsActive,
	}
	dst := []any{&e.ID, &e.CreatedAt, &e.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `
		SELECT username, password_hash, first_name, last_name, email, role,
			team_id, weekly_hours, capabilities, is_active, created_at, version
		FROM employees WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	e := &domain.Employee{ID: id}
	var capabilities string

	dst := []any{
		&e.Username, &e.PasswordHash, &e.FirstName, &e.LastName, &e.Email, &e.Role,
		&e.TeamID, &e.WeeklyHours, &capabilities, &e.IsActive, &e.CreatedAt, &e.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	e.Capabilities = decodeCapabilities(capabilities)

	return e, nil
}

func (r *Repository) GetEmployeeByUsername(username string) (*domain.Employee, error) {
	query := `
		SELECT id, password_hash, first_name, last_name, email, role,
			team_id, weekly_hours, capabilities, is_active, created_at, version
		FROM employees WHERE username = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	e := &domain.Employee{Username: username}
	var capabilities string

	dst := []any{
		&e.ID, &e.PasswordHash, &e.FirstName, &e.LastName, &e.Email, &e.Role,
		&e.TeamID, &e.WeeklyHours, &capabilities, &e.IsActive, &e.CreatedAt, &e.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}
	e.Capabilities = decodeCapabilities(capabilities)

	return e, nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, username, first_name, last_name, email, role,
			team_id, weekly_hours, capabilities, is_active, created_at, version
		FROM employees
		ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		var capabilities string

		dst := []any{
			&e.ID, &e.Username, &e.FirstName, &e.LastName, &e.Email, &e.Role,
			&e.TeamID, &e.WeeklyHours, &capabilities, &e.IsActive, &e.CreatedAt, &e.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		e.Capabilities = decodeCapabilities(capabilities)
		employees = append(employees, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) UpdateEmployee(e *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			role = $4,
			team_id = $5,
			weekly_hours = $6,
			capabilities = $7,
			is_active = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		e.FirstName,
		e.LastName,
		e.Email,
		e.Role,
		e.TeamID,
		e.WeeklyHours,
		encodeCapabilities(e.Capabilities),
		e.IsActive,
		e.ID,
		e.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&e.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployeePassword(id int64, passwordHash string) error {
	query := `
		UPDATE employees
		SET password_hash = $1, version = version + 1
		WHERE id = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, passwordHash, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
