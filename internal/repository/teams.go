package repository

import (
	"database/sql"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

func (r *Repository) CreateTeam(t *domain.Team) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO teams (name, is_virtual)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := tx.QueryRowContext(ctx, query, t.Name, t.IsVirtual).Scan(&t.ID, &t.CreatedAt, &t.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO team_shift_types (team_id, shift_type_id)
		VALUES ($1, $2)
	`
	for _, shiftTypeID := range t.ShiftTypeIDs {
		if _, err := tx.ExecContext(ctx, query, t.ID, shiftTypeID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAllTeams() ([]*domain.Team, error) {
	query := `
		SELECT t.id, t.name, t.is_virtual, t.created_at, t.version, tst.shift_type_id
		FROM teams t
		LEFT JOIN team_shift_types tst ON t.id = tst.team_id
		ORDER BY t.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teamsMap := make(map[int64]*domain.Team)
	order := []int64{}

	for rows.Next() {
		var (
			t           domain.Team
			shiftTypeID sql.NullInt64
		)

		if err := rows.Scan(&t.ID, &t.Name, &t.IsVirtual, &t.CreatedAt, &t.Version, &shiftTypeID); err != nil {
			return nil, err
		}

		team, exists := teamsMap[t.ID]
		if !exists {
			t.ShiftTypeIDs = []int64{}
			teamsMap[t.ID] = &t
			order = append(order, t.ID)
			team = &t
		}

		if shiftTypeID.Valid {
			team.ShiftTypeIDs = append(team.ShiftTypeIDs, shiftTypeID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	teams := make([]*domain.Team, 0, len(order))
	for _, id := range order {
		teams = append(teams, teamsMap[id])
	}

	return teams, nil
}

func (r *Repository) GetTeamByID(id int64) (*domain.Team, error) {
	query := `
		SELECT t.name, t.is_virtual, t.created_at, t.version, tst.shift_type_id
		FROM teams t
		LEFT JOIN team_shift_types tst ON t.id = tst.team_id
		WHERE t.id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	team := &domain.Team{ID: id, ShiftTypeIDs: []int64{}}
	found := false

	for rows.Next() {
		var shiftTypeID sql.NullInt64

		if err := rows.Scan(&team.Name, &team.IsVirtual, &team.CreatedAt, &team.Version, &shiftTypeID); err != nil {
			return nil, err
		}
		found = true

		if shiftTypeID.Valid {
			team.ShiftTypeIDs = append(team.ShiftTypeIDs, shiftTypeID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return team, nil
}

func (r *Repository) UpdateTeam(t *domain.Team) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE teams
		SET name = $1, is_virtual = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, t.Name, t.IsVirtual, t.ID, t.Version).Scan(&t.Version); err != nil {
		return err
	}

	// replace the eligible shift type set wholesale
	if _, err := tx.ExecContext(ctx, `DELETE FROM team_shift_types WHERE team_id = $1`, t.ID); err != nil {
		return err
	}

	query = `
		INSERT INTO team_shift_types (team_id, shift_type_id)
		VALUES ($1, $2)
	`
	for _, shiftTypeID := range t.ShiftTypeIDs {
		if _, err := tx.ExecContext(ctx, query, t.ID, shiftTypeID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) DeleteTeam(id int64) error {
	query := `
		DELETE FROM teams WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
