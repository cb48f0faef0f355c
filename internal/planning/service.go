// Package planning is the engine facade the transport layer talks to: bulk
// planning runs, the absence side-effect pipeline and ad hoc staffing checks.
package planning

import (
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/notification"
	"github.com/schichtwerk/schichtplaner/backend/internal/scheduler"
	"github.com/schichtwerk/schichtplaner/backend/internal/springer"
	"github.com/schichtwerk/schichtplaner/backend/internal/staffing"
)

type Store interface {
	GetStaffingRules() (domain.StaffingRules, error)
	GetAllEmployees() ([]*domain.Employee, error)
	GetAllTeams() ([]*domain.Team, error)
	GetAllShiftTypes() ([]*domain.ShiftType, error)
	GetAllShiftTypeRelationships() ([]*domain.ShiftTypeRelationship, error)
	GetAbsencesOverlapping(start, end time.Time) ([]*domain.Absence, error)
	ReplaceAssignmentsInRange(start, end time.Time, assignments []*domain.ShiftAssignment) error
}

type Service struct {
	store         Store
	solver        scheduler.Solver
	staffing      *staffing.Service
	notifications *notification.Manager
	springer      *springer.Engine
}

func NewService(
	store Store,
	solver scheduler.Solver,
	staffingSvc *staffing.Service,
	notifications *notification.Manager,
	springerEngine *springer.Engine,
) *Service {
	return &Service{
		store:         store,
		solver:        solver,
		staffing:      staffingSvc,
		notifications: notifications,
		springer:      springerEngine,
	}
}

type PlanResult struct {
	Status      scheduler.Status          `json:"status"`
	Assignments []*domain.ShiftAssignment `json:"assignments"`
	Diagnostics *scheduler.Diagnostics    `json:"diagnostics,omitempty"`
}

// Plan builds and solves the constraint model for one complete month and
// persists the resulting assignments. Fixed assignments survive the bulk
// replace untouched.
//
// Failure semantics: an infeasible model returns *InfeasibleError with
// diagnostics; an exhausted time budget returns *TimeoutError unless the
// solver was configured to hand back its best incumbent, in which case the
// unpersisted incumbent is returned with StatusTimeout.
func (s *Service) Plan(start, end time.Time, timeLimit time.Duration) (*PlanResult, error) {
	start = domain.NormalizeDate(start)
	end = domain.NormalizeDate(end)

	if err := validateMonthRange(start, end); err != nil {
		return nil, err
	}

	rules, err := s.store.GetStaffingRules()
	if err != nil {
		return nil, err
	}
	employees, err := s.store.GetAllEmployees()
	if err != nil {
		return nil, err
	}
	teams, err := s.store.GetAllTeams()
	if err != nil {
		return nil, err
	}
	shiftTypes, err := s.store.GetAllShiftTypes()
	if err != nil {
		return nil, err
	}
	relationships, err := s.store.GetAllShiftTypeRelationships()
	if err != nil {
		return nil, err
	}
	absences, err := s.store.GetAbsencesOverlapping(start, end)
	if err != nil {
		return nil, err
	}

	builder := scheduler.NewBuilder(rules, employees, teams, shiftTypes, relationships, absences)
	model, err := builder.Build(start, end)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	solution, err := s.solver.Solve(model, timeLimit)
	if err != nil {
		return nil, err
	}

	switch solution.Status {
	case scheduler.StatusInfeasible:
		return nil, &InfeasibleError{Diagnostics: solution.Diagnostics}
	case scheduler.StatusTimeout:
		if solution.Plan == nil {
			return nil, &TimeoutError{TimeLimit: timeLimit}
		}
		// best incumbent, deliberately not persisted
		return &PlanResult{
			Status:      solution.Status,
			Assignments: model.Assignments(solution.Plan),
			Diagnostics: solution.Diagnostics,
		}, nil
	}

	assignments := model.Assignments(solution.Plan)
	if err := s.store.ReplaceAssignmentsInRange(start, end, assignments); err != nil {
		return nil, MapPersistenceError(err)
	}

	return &PlanResult{
		Status:      solution.Status,
		Assignments: assignments,
	}, nil
}

type AbsenceSideEffects struct {
	NotificationIDs    []int64           `json:"notificationIDs"`
	ReplacementSummary *springer.Summary `json:"replacementSummary"`
}

// ProcessAbsenceSideEffects runs the reactive pipeline for a freshly
// committed absence: proactive staffing alerts first, then the Springer
// repair, both over the same persisted state. Each step is idempotent, so a
// re-run after a partial failure is safe. An unresolved coverage gap is a
// result, not an error; the absence stays committed either way.
func (s *Service) ProcessAbsenceSideEffects(absence *domain.Absence) (*AbsenceSideEffects, error) {
	notifications, err := s.notifications.ProcessAbsence(absence)
	if err != nil {
		return nil, MapPersistenceError(err)
	}

	summary, err := s.springer.ProcessAbsenceForReplacement(absence)
	if err != nil {
		return nil, MapPersistenceError(err)
	}
	summary.NotificationsSent = len(notifications)

	ids := make([]int64, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	return &AbsenceSideEffects{
		NotificationIDs:    ids,
		ReplacementSummary: summary,
	}, nil
}

// CheckStaffing answers ad hoc staffing queries, e.g. pre-save validation of
// a manual edit.
func (s *Service) CheckStaffing(date time.Time, shiftCode string) (*staffing.Report, error) {
	return s.staffing.CheckStaffing(date, shiftCode)
}

// validateMonthRange enforces the planning policy: a run covers exactly one
// complete calendar month.
func validateMonthRange(start, end time.Time) error {
	if end.Before(start) {
		return &ValidationError{Reason: "end date before start date"}
	}
	if start.Day() != 1 {
		return &ValidationError{Reason: "planning range must start on the first day of a month"}
	}
	lastOfMonth := start.AddDate(0, 1, -1)
	if !end.Equal(lastOfMonth) {
		return &ValidationError{Reason: "planning range must end on the last day of the same month"}
	}
	return nil
}
