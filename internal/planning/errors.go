package planning

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/schichtwerk/schichtplaner/backend/internal/scheduler"
)

// ValidationError: malformed or out-of-policy input. Rejected before model
// construction, never reaches the solver.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// InfeasibleError: the hard constraints admit no plan. Always carries the
// structural diagnostics, never a bare failure.
type InfeasibleError struct {
	Diagnostics *scheduler.Diagnostics
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no feasible plan exists (%d infeasible shifts)", len(e.Diagnostics.InfeasibleShifts))
}

// TimeoutError: no feasible plan and no infeasibility proof within the time
// budget. Distinct from InfeasibleError so callers can retry with more time.
type TimeoutError struct {
	TimeLimit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("solver hit the %s time budget without a proof either way", e.TimeLimit)
}

// ErrAssignmentConflict: a concurrent write violated the assignment
// uniqueness invariant. Surfaced for caller retry, never silently
// overwritten.
var ErrAssignmentConflict = errors.New("assignment already exists for this employee, shift type and date")

// MapPersistenceError translates the database's unique-violation into the
// domain conflict error; everything else passes through untouched.
func MapPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAssignmentConflict
	}
	return err
}
