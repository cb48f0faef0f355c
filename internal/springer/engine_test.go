package springer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/staffing"
)

type fakeStore struct {
	employees   []*domain.Employee
	shiftTypes  map[int64]*domain.ShiftType
	assignments []*domain.ShiftAssignment
	absences    []*domain.Absence
	nextID      int64
}

func (f *fakeStore) GetAllEmployees() ([]*domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeStore) GetShiftTypeByID(id int64) (*domain.ShiftType, error) {
	return f.shiftTypes[id], nil
}

func (f *fakeStore) GetShiftTypeByCode(code string) (*domain.ShiftType, error) {
	for _, st := range f.shiftTypes {
		if st.Code == code {
			return st, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetAssignmentsByDate(date time.Time) ([]*domain.ShiftAssignment, error) {
	out := []*domain.ShiftAssignment{}
	for _, a := range f.assignments {
		if domain.NormalizeDate(a.Date).Equal(domain.NormalizeDate(date)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAssignmentsByEmployeeInRange(employeeID int64, start, end time.Time) ([]*domain.ShiftAssignment, error) {
	out := []*domain.ShiftAssignment{}
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAbsencesOverlapping(start, end time.Time) ([]*domain.Absence, error) {
	out := []*domain.Absence{}
	for _, a := range f.absences {
		if a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateAssignment(a *domain.ShiftAssignment) error {
	f.nextID++
	a.ID = f.nextID
	f.assignments = append(f.assignments, a)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrInt64(v int64) *int64 {
	return &v
}

func employee(id int64, teamID *int64, caps ...domain.Capability) *domain.Employee {
	return &domain.Employee{
		ID:           id,
		FirstName:    "Person",
		LastName:     "Nr" + string(rune('0'+id)),
		TeamID:       teamID,
		WeeklyHours:  40,
		Capabilities: domain.CapabilitySet(caps),
		IsActive:     true,
	}
}

// newStore wires a plant where the F shift needs 2 heads and employees 1 and
// 2 hold it on the given day.
func newStore(day time.Time) *fakeStore {
	return &fakeStore{
		employees: []*domain.Employee{
			employee(1, ptrInt64(1)),
			employee(2, ptrInt64(1)),
		},
		shiftTypes: map[int64]*domain.ShiftType{
			1: {
				ID: 1, Code: "F", Name: "Frühschicht",
				StartTime: "06:00:00", EndTime: "14:00:00", DurationHours: 8,
				ActiveWeekdays:  [7]bool{true, true, true, true, true, true, true},
				MinStaffWeekday: 2, MaxStaffWeekday: 3,
				MinStaffWeekend: 2, MaxStaffWeekend: 3,
			},
		},
		assignments: []*domain.ShiftAssignment{
			{ID: 1, EmployeeID: 1, ShiftTypeID: 1, Date: day},
			{ID: 2, EmployeeID: 2, ShiftTypeID: 1, Date: day},
		},
		nextID: 2,
	}
}

func newEngine(store *fakeStore) *Engine {
	return NewEngine(store, staffing.NewService(store))
}

func absenceFor(employeeID int64, day time.Time) *domain.Absence {
	return &domain.Absence{
		ID: 1, EmployeeID: employeeID, Type: domain.AbsenceKrank,
		StartDate: day, EndDate: day,
	}
}

func TestReplacement_PrefersOwnTeamSpringer(t *testing.T) {
	day := date(2026, time.March, 2)
	store := newStore(day)
	store.employees = append(store.employees,
		employee(3, ptrInt64(2), domain.CapabilitySpringer), // other team
		employee(4, ptrInt64(1), domain.CapabilitySpringer), // own team
		employee(5, nil, domain.CapabilityFerienjobber),
	)

	absence := absenceFor(1, day)
	store.absences = []*domain.Absence{absence}

	summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)

	require.Equal(t, 1, summary.AssignmentsCreated)
	require.Equal(t, 0, summary.ShiftsNeedingCoverage)
	require.Len(t, summary.Details, 1)

	detail := summary.Details[0]
	require.True(t, detail.Resolved)
	require.Equal(t, TierTeamSpringer, detail.Tier)
	require.Equal(t, int64(4), *detail.SubstituteID)

	created := store.assignments[len(store.assignments)-1]
	require.Equal(t, int64(4), created.EmployeeID)
	require.True(t, created.IsSubstitute)
	require.False(t, created.IsManual)
}

func TestReplacement_FallsThroughTiers(t *testing.T) {
	day := date(2026, time.March, 2)

	t.Run("cross-team springer when own team has none", func(t *testing.T) {
		store := newStore(day)
		store.employees = append(store.employees,
			employee(3, ptrInt64(2), domain.CapabilitySpringer),
			employee(5, nil, domain.CapabilityFerienjobber),
		)
		absence := absenceFor(1, day)
		store.absences = []*domain.Absence{absence}

		summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
		require.NoError(t, err)
		require.Equal(t, TierCrossSpringer, summary.Details[0].Tier)
		require.Equal(t, int64(3), *summary.Details[0].SubstituteID)
	})

	t.Run("ferienjobber as the last resort", func(t *testing.T) {
		store := newStore(day)
		store.employees = append(store.employees,
			employee(5, nil, domain.CapabilityFerienjobber),
		)
		absence := absenceFor(1, day)
		store.absences = []*domain.Absence{absence}

		summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
		require.NoError(t, err)
		require.Equal(t, TierFerienjobber, summary.Details[0].Tier)
		require.Equal(t, int64(5), *summary.Details[0].SubstituteID)
	})
}

func TestReplacement_TieBreaksOnLowestID(t *testing.T) {
	day := date(2026, time.March, 2)
	store := newStore(day)
	store.employees = append(store.employees,
		employee(9, ptrInt64(1), domain.CapabilitySpringer),
		employee(4, ptrInt64(1), domain.CapabilitySpringer),
		employee(7, ptrInt64(1), domain.CapabilitySpringer),
	)

	absence := absenceFor(1, day)
	store.absences = []*domain.Absence{absence}

	summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)
	require.Equal(t, int64(4), *summary.Details[0].SubstituteID)
}

func TestReplacement_SkipsBusyAbsentOrInactiveCandidates(t *testing.T) {
	day := date(2026, time.March, 2)
	store := newStore(day)

	busy := employee(3, ptrInt64(1), domain.CapabilitySpringer)
	sick := employee(4, ptrInt64(1), domain.CapabilitySpringer)
	inactive := employee(5, ptrInt64(1), domain.CapabilitySpringer)
	inactive.IsActive = false
	free := employee(6, ptrInt64(1), domain.CapabilitySpringer)
	store.employees = append(store.employees, busy, sick, inactive, free)

	// busy works another shift that day, which blocks him without restoring
	// the F coverage
	store.assignments = append(store.assignments,
		&domain.ShiftAssignment{ID: 3, EmployeeID: 3, ShiftTypeID: 2, Date: day})

	absence := absenceFor(1, day)
	store.absences = []*domain.Absence{
		absence,
		{ID: 2, EmployeeID: 4, Type: domain.AbsenceKrank, StartDate: day, EndDate: day},
	}

	summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)
	require.Equal(t, int64(6), *summary.Details[0].SubstituteID)
}

func TestReplacement_ReportsUnresolvedGap(t *testing.T) {
	day := date(2026, time.March, 2)
	store := newStore(day)

	absence := absenceFor(1, day)
	store.absences = []*domain.Absence{absence}

	summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)

	require.Equal(t, 0, summary.AssignmentsCreated)
	require.Equal(t, 1, summary.ShiftsNeedingCoverage)
	require.Len(t, summary.Details, 1)

	detail := summary.Details[0]
	require.False(t, detail.Resolved)
	require.Nil(t, detail.SubstituteID)
	require.NotEmpty(t, detail.Note)
	require.Len(t, store.assignments, 2) // nothing created
}

func TestReplacement_IdempotentOnRerun(t *testing.T) {
	day := date(2026, time.March, 2)
	store := newStore(day)
	store.employees = append(store.employees,
		employee(4, ptrInt64(1), domain.CapabilitySpringer))

	absence := absenceFor(1, day)
	store.absences = []*domain.Absence{absence}

	engine := newEngine(store)

	first, err := engine.ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)
	require.Equal(t, 1, first.AssignmentsCreated)

	// the substitute restored coverage, so a re-run has nothing to repair
	second, err := engine.ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)
	require.Equal(t, 0, second.AssignmentsCreated)
	require.Equal(t, 0, second.ShiftsNeedingCoverage)
	require.Empty(t, second.Details)
	require.Len(t, store.assignments, 3)
}

func TestReplacement_SkipsShiftsOutsideAbsence(t *testing.T) {
	day := date(2026, time.March, 2)
	nextWeek := day.AddDate(0, 0, 7)

	store := newStore(day)
	store.employees = append(store.employees,
		employee(4, ptrInt64(1), domain.CapabilitySpringer))
	store.assignments = append(store.assignments,
		&domain.ShiftAssignment{ID: 3, EmployeeID: 1, ShiftTypeID: 1, Date: nextWeek})

	absence := absenceFor(1, day)
	store.absences = []*domain.Absence{absence}

	summary, err := newEngine(store).ProcessAbsenceForReplacement(absence)
	require.NoError(t, err)
	require.Len(t, summary.Details, 1)
	require.Equal(t, day, summary.Details[0].Date)
}
