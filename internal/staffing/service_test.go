package staffing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

type fakeStore struct {
	shiftTypes  map[string]*domain.ShiftType
	assignments []*domain.ShiftAssignment
	absences    []*domain.Absence
}

func (f *fakeStore) GetShiftTypeByCode(code string) (*domain.ShiftType, error) {
	return f.shiftTypes[code], nil
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

func (f *fakeStore) GetAbsencesOverlapping(start, end time.Time) ([]*domain.Absence, error) {
	out := []*domain.Absence{}
	for _, a := range f.absences {
		if a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fruehShiftType() *domain.ShiftType {
	return &domain.ShiftType{
		ID:              1,
		Code:            "F",
		Name:            "Frühschicht",
		StartTime:       "06:00:00",
		EndTime:         "14:00:00",
		DurationHours:   8,
		ActiveWeekdays:  [7]bool{true, true, true, true, true, true, true},
		MinStaffWeekday: 3,
		MaxStaffWeekday: 5,
		MinStaffWeekend: 2,
		MaxStaffWeekend: 4,
	}
}

func assignment(employeeID int64, shiftTypeID int64, d time.Time) *domain.ShiftAssignment {
	return &domain.ShiftAssignment{EmployeeID: employeeID, ShiftTypeID: shiftTypeID, Date: d}
}

func TestCheckStaffing_SufficientOnWeekday(t *testing.T) {
	monday := date(2026, time.March, 2)
	store := &fakeStore{
		shiftTypes: map[string]*domain.ShiftType{"F": fruehShiftType()},
		assignments: []*domain.ShiftAssignment{
			assignment(1, 1, monday),
			assignment(2, 1, monday),
			assignment(3, 1, monday),
		},
	}

	report, err := NewService(store).CheckStaffing(monday, "F")
	require.NoError(t, err)
	require.Equal(t, int32(3), report.Required)
	require.Equal(t, int32(3), report.Actual)
	require.False(t, report.Understaffed)
	require.Equal(t, int32(0), report.Deficit())
}

func TestCheckStaffing_AbsenceCreatesDeficit(t *testing.T) {
	monday := date(2026, time.March, 2)
	store := &fakeStore{
		shiftTypes: map[string]*domain.ShiftType{"F": fruehShiftType()},
		assignments: []*domain.ShiftAssignment{
			assignment(1, 1, monday),
			assignment(2, 1, monday),
			assignment(3, 1, monday),
		},
		absences: []*domain.Absence{
			{EmployeeID: 3, Type: domain.AbsenceKrank, StartDate: monday, EndDate: monday},
		},
	}

	report, err := NewService(store).CheckStaffing(monday, "F")
	require.NoError(t, err)
	require.Equal(t, int32(2), report.Actual)
	require.True(t, report.Understaffed)
	require.Equal(t, int32(1), report.Deficit())
}

func TestCheckStaffing_WeekendUsesWeekendMinimum(t *testing.T) {
	saturday := date(2026, time.March, 7)
	store := &fakeStore{
		shiftTypes: map[string]*domain.ShiftType{"F": fruehShiftType()},
		assignments: []*domain.ShiftAssignment{
			assignment(1, 1, saturday),
			assignment(2, 1, saturday),
		},
	}

	report, err := NewService(store).CheckStaffing(saturday, "F")
	require.NoError(t, err)
	require.Equal(t, int32(2), report.Required)
	require.False(t, report.Understaffed)
}

func TestEvaluate_CountsDistinctEmployeesOnly(t *testing.T) {
	monday := date(2026, time.March, 2)
	st := fruehShiftType()

	// one employee duplicated, one on a different shift type, one on a
	// different date
	assignments := []*domain.ShiftAssignment{
		assignment(1, 1, monday),
		assignment(1, 1, monday),
		assignment(2, 2, monday),
		assignment(3, 1, monday.AddDate(0, 0, 1)),
	}

	report := Evaluate(st, monday, assignments, nil)
	require.Equal(t, int32(1), report.Actual)
	require.True(t, report.Understaffed)
	require.Equal(t, int32(2), report.Deficit())
}
