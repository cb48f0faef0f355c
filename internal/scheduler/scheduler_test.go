package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/utils"
)

func testParameters() Parameters {
	p := DefaultParameters()
	p.MaxGenerations = 600
	return p
}

func TestSolve_FindsFeasiblePlan(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	spaet := newShiftType(2, "S", "14:00:00", "22:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1, 2}}

	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1), domain.CapabilityBMT),
		newEmployee(2, ptrInt64(1), domain.CapabilityBSB),
		newEmployee(3, ptrInt64(1)),
		newEmployee(4, ptrInt64(1)),
		newEmployee(5, ptrInt64(1)),
		newEmployee(6, ptrInt64(1)),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh, spaet}, nil, nil)
	m, err := b.Build(date(2026, time.March, 2), date(2026, time.March, 8))
	require.NoError(t, err)

	solver := NewGeneticSolver(testParameters())
	solution, err := solver.Solve(m, 20*time.Second)
	require.NoError(t, err)

	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, solution.Status)
	require.NotNil(t, solution.Plan)
	require.Equal(t, 0, solution.HardViolations)
	require.Equal(t, 0, m.Violations(solution.Plan))
	require.Len(t, solution.Plan, len(m.Slots))
}

func TestSolve_InfeasibleWhenEveryoneIsAbsent(t *testing.T) {
	// the full F crew of four is out sick and there is no springer to call
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MinStaffWeekday = 4
	frueh.MaxStaffWeekday = 6
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}

	day := date(2026, time.March, 2)
	employees := []*domain.Employee{}
	absences := []*domain.Absence{}
	for id := int64(1); id <= 4; id++ {
		employees = append(employees, newEmployee(id, ptrInt64(1)))
		absences = append(absences, &domain.Absence{
			EmployeeID: id,
			Type:       domain.AbsenceKrank,
			StartDate:  day,
			EndDate:    day,
		})
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh}, nil, absences)
	m, err := b.Build(day, day)
	require.NoError(t, err)

	solver := NewGeneticSolver(testParameters())
	solution, err := solver.Solve(m, time.Second)
	require.NoError(t, err)

	require.Equal(t, StatusInfeasible, solution.Status)
	require.Nil(t, solution.Plan)
	require.NotNil(t, solution.Diagnostics)
	require.NotEmpty(t, solution.Diagnostics.InfeasibleShifts)

	worst := solution.Diagnostics.InfeasibleShifts[0]
	require.Equal(t, "F", worst.ShiftCode)
	require.Equal(t, int32(4), worst.Required)
	require.Equal(t, int32(0), worst.Eligible)
	require.Equal(t, int32(4), worst.Deficit)
}

func TestSolve_OptimalOnTrivialModel(t *testing.T) {
	// one slot, one employee; a sub-week horizon carries no hours target
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MaxStaffWeekday = 1
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	e1 := newEmployee(1, ptrInt64(1), domain.CapabilityBMT)

	b := NewBuilder(domain.DefaultStaffingRules(), []*domain.Employee{e1},
		[]*domain.Team{teamA}, []*domain.ShiftType{frueh}, nil, nil)
	day := date(2026, time.March, 2)
	m, err := b.Build(day, day)
	require.NoError(t, err)

	solver := NewGeneticSolver(testParameters())
	solution, err := solver.Solve(m, 10*time.Second)
	require.NoError(t, err)

	require.Equal(t, StatusOptimal, solution.Status)
	require.Equal(t, [][]int64{{1}}, solution.Plan)
	require.Zero(t, solution.SoftPenalty)
}

func TestSolve_RoundTheClockCoverageStaffsEveryone(t *testing.T) {
	// F, S and N each need exactly one head over three days, so any feasible
	// plan puts all three employees to work every single day
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	spaet := newShiftType(2, "S", "14:00:00", "22:00:00", false)
	nacht := newShiftType(3, "N", "22:00:00", "06:00:00", true)
	for _, st := range []*domain.ShiftType{frueh, spaet, nacht} {
		st.MaxStaffWeekday = 1
		st.MaxStaffWeekend = 1
	}
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1, 2, 3}}

	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1), domain.CapabilityBMT),
		newEmployee(2, ptrInt64(1), domain.CapabilityBSB),
		newEmployee(3, ptrInt64(1)),
	}

	rules := domain.DefaultStaffingRules()
	shiftTypes := []*domain.ShiftType{frueh, spaet, nacht}
	b := NewBuilder(rules, employees, []*domain.Team{teamA}, shiftTypes, nil, nil)

	start := date(2026, time.March, 2)
	end := date(2026, time.March, 4)
	m, err := b.Build(start, end)
	require.NoError(t, err)
	require.Len(t, m.Slots, 9)

	solver := NewGeneticSolver(testParameters())
	solution, err := solver.Solve(m, 20*time.Second)
	require.NoError(t, err)

	// every feasible plan here is also rotation-clean, hence optimal
	require.Equal(t, StatusOptimal, solution.Status)
	require.Equal(t, 0, m.Violations(solution.Plan))

	assignments := m.Assignments(solution.Plan)
	require.NoError(t, utils.ValidateCoverage(assignments, shiftTypes, start, end))
	require.NoError(t, utils.ValidateNoDoubleBooking(assignments))
	require.NoError(t, utils.ValidateRest(assignments, shiftTypes, rules))
	require.NoError(t, utils.ValidateAbsenceExclusion(assignments, nil))

	daysWorked := make(map[int64]map[time.Time]bool)
	for _, a := range assignments {
		if daysWorked[a.EmployeeID] == nil {
			daysWorked[a.EmployeeID] = make(map[time.Time]bool)
		}
		daysWorked[a.EmployeeID][a.Date] = true
	}
	for _, e := range employees {
		require.Len(t, daysWorked[e.ID], 3, "employee %d", e.ID)
	}
}

func TestSolve_PlanSurvivesAsAssignments(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1), domain.CapabilityBMT),
		newEmployee(2, ptrInt64(1)),
		newEmployee(3, ptrInt64(1)),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh}, nil, nil)
	m, err := b.Build(date(2026, time.March, 2), date(2026, time.March, 4))
	require.NoError(t, err)

	solver := NewGeneticSolver(testParameters())
	solution, err := solver.Solve(m, 10*time.Second)
	require.NoError(t, err)
	require.NotNil(t, solution.Plan)

	assignments := m.Assignments(solution.Plan)
	require.NotEmpty(t, assignments)
	for _, a := range assignments {
		require.Contains(t, m.Employees, a.EmployeeID)
		require.Equal(t, int64(1), a.ShiftTypeID)
		require.False(t, a.Date.Before(m.Start))
		require.False(t, a.Date.After(m.End))
	}
}
