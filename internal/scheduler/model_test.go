package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// twoShiftModel builds a small model by hand: F and N on consecutive days,
// one team with four members, one of them BMT qualified.
func twoShiftModel(t *testing.T, start, end time.Time) *Model {
	t.Helper()

	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	nacht := newShiftType(2, "N", "22:00:00", "06:00:00", true)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1, 2}}

	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1), domain.CapabilityBMT),
		newEmployee(2, ptrInt64(1)),
		newEmployee(3, ptrInt64(1)),
		newEmployee(4, ptrInt64(1)),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh, nacht}, nil, nil)
	m, err := b.Build(start, end)
	require.NoError(t, err)
	return m
}

func TestViolations_FeasiblePlanIsClean(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)
	require.Len(t, m.Slots, 2)

	plan := [][]int64{{1, 2}, {3}}
	require.Equal(t, 0, m.Violations(plan))
}

func TestViolations_CoverageBelowMinimum(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)

	plan := [][]int64{{}, {3}}
	require.Equal(t, 2, m.Violations(plan)) // empty F slot + uncovered day duty
}

func TestViolations_SameDayDoubleBooking(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)

	// double booking plus the 8 hour gap between F end and N start
	plan := [][]int64{{1}, {1}}
	require.Equal(t, 2, m.Violations(plan))
}

func TestViolations_DuplicateWithinSlot(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)

	// the duplicate head, the resulting same-day pair and its impossible rest
	// gap each count once
	plan := [][]int64{{1, 1}, {3}}
	require.Equal(t, 3, m.Violations(plan))
}

func TestViolations_RestBetweenNightAndEarly(t *testing.T) {
	m := twoShiftModel(t, date(2026, time.March, 2), date(2026, time.March, 3))
	require.Len(t, m.Slots, 4) // F+N per day

	// employee 1 works N on day one (ends 06:00 next day) and F on day two
	// (starts 06:00): zero rest, well under the 11 hour minimum
	plan := [][]int64{{2}, {1}, {1}, {3}}
	require.Equal(t, 1, m.Violations(plan))
}

func TestViolations_MaxConsecutiveNights(t *testing.T) {
	m := twoShiftModel(t, date(2026, time.March, 2), date(2026, time.March, 5))
	require.Len(t, m.Slots, 8)

	// employee 2 works all four nights, limit is three
	plan := [][]int64{
		{1}, {2},
		{1}, {2},
		{1}, {2},
		{1}, {2},
	}
	require.Equal(t, 1, m.Violations(plan))
}

func TestViolations_DayDutyNeedsQualifiedEmployee(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)

	// employees 2 and 3 carry no BMT/BSB qualification
	plan := [][]int64{{2}, {3}}
	require.Equal(t, 1, m.Violations(plan))

	// employee 1 is BMT qualified
	plan = [][]int64{{1}, {3}}
	require.Equal(t, 0, m.Violations(plan))
}

func TestSoftPenalty_ShortfallDominatesOverstaffing(t *testing.T) {
	// one full week, so every employee carries a 40 hour target
	m := twoShiftModel(t, date(2026, time.March, 2), date(2026, time.March, 8))
	require.Len(t, m.Slots, 14)

	lean := make([][]int64, 0, 14)
	padded := make([][]int64, 0, 14)
	for i := 0; i < 7; i++ {
		lean = append(lean, []int64{1}, []int64{2})
		padded = append(padded, []int64{1, 3, 4}, []int64{2})
	}

	// leaving employees 3 and 4 idle costs far more in hours shortfall than
	// the padded plan pays in overstaffing
	require.Less(t, m.SoftPenalty(padded), m.SoftPenalty(lean))
}

func TestSoftPenalty_RotationPreference(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	spaet := newShiftType(2, "S", "14:00:00", "22:00:00", false)
	nacht := newShiftType(3, "N", "22:00:00", "06:00:00", true)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1, 2, 3}}
	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1)),
		newEmployee(2, ptrInt64(1)),
		newEmployee(3, ptrInt64(1)),
	}
	relationships := []*domain.ShiftTypeRelationship{
		{ShiftTypeID: 1, RelatedTypeID: 3, Priority: 0}, // F -> N preferred
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh, spaet, nacht}, relationships, nil)
	m, err := b.Build(date(2026, time.March, 2), date(2026, time.March, 3))
	require.NoError(t, err)
	require.Len(t, m.Slots, 6)

	// identical staffing except the day-two rotation: F->N and S->S versus
	// F->S and S->N, which are unknown transitions
	preferred := m.SoftPenalty([][]int64{{1}, {2}, {3}, {3}, {2}, {1}})
	unrelated := m.SoftPenalty([][]int64{{1}, {2}, {3}, {3}, {1}, {2}})
	require.Less(t, preferred, unrelated)
}

func TestAssignments_MaterializesPlan(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)

	assignments := m.Assignments([][]int64{{1, 2}, {3}})
	require.Len(t, assignments, 3)
	require.Equal(t, int64(1), assignments[0].EmployeeID)
	require.Equal(t, int64(1), assignments[0].ShiftTypeID)
	require.Equal(t, day, assignments[0].Date)
	require.Equal(t, int64(2), assignments[2].ShiftTypeID)
	require.False(t, assignments[0].IsManual)
	require.False(t, assignments[0].IsFixed)
}
