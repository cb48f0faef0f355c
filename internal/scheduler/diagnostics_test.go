package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

func TestDiagnose_CleanModel(t *testing.T) {
	day := date(2026, time.March, 2)
	m := twoShiftModel(t, day, day)

	d := Diagnose(m)
	require.False(t, d.Infeasible())
	require.Empty(t, d.InfeasibleShifts)
	require.Empty(t, d.Issues)
	require.Equal(t, 4, d.TotalEmployees)
	require.Equal(t, 4, d.AvailableEmployees)
}

func TestDiagnose_UnstaffableShift(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MinStaffWeekday = 3
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1)),
		newEmployee(2, ptrInt64(1)),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh}, nil, nil)
	day := date(2026, time.March, 2)
	m, err := b.Build(day, day)
	require.NoError(t, err)

	d := Diagnose(m)
	require.True(t, d.Infeasible())
	require.Len(t, d.InfeasibleShifts, 1)
	require.Equal(t, "F", d.InfeasibleShifts[0].ShiftCode)
	require.Equal(t, int32(3), d.InfeasibleShifts[0].Required)
	require.Equal(t, int32(2), d.InfeasibleShifts[0].Eligible)
	require.Equal(t, int32(1), d.InfeasibleShifts[0].Deficit)
	require.NotEmpty(t, d.Issues)
}

func TestDiagnose_DayCapacityExceeded(t *testing.T) {
	// two shift types, each staffable on its own, but the day needs three
	// distinct heads and only two exist
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MinStaffWeekday = 2
	spaet := newShiftType(2, "S", "14:00:00", "22:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1, 2}}
	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1)),
		newEmployee(2, ptrInt64(1)),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh, spaet}, nil, nil)
	day := date(2026, time.March, 2)
	m, err := b.Build(day, day)
	require.NoError(t, err)

	d := Diagnose(m)
	require.True(t, d.Infeasible())
	require.Empty(t, d.InfeasibleShifts)
	require.NotEmpty(t, d.Issues)
}

func TestDiagnose_MissingDayDutyQualification(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	// nobody carries BMT or BSB
	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1)),
		newEmployee(2, ptrInt64(1)),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh}, nil, nil)
	monday := date(2026, time.March, 2)
	m, err := b.Build(monday, monday)
	require.NoError(t, err)

	d := Diagnose(m)
	require.True(t, d.Infeasible())
	require.Empty(t, d.InfeasibleShifts)
	require.NotEmpty(t, d.Issues)
}

func TestDiagnose_SortsWorstShortfallFirst(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MinStaffWeekday = 2
	frueh.MinStaffWeekend = 4
	frueh.MaxStaffWeekend = 4
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	employees := []*domain.Employee{
		newEmployee(1, ptrInt64(1), domain.CapabilityBMT),
	}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh}, nil, nil)
	// Friday (deficit 1) and Saturday (deficit 3)
	m, err := b.Build(date(2026, time.March, 6), date(2026, time.March, 7))
	require.NoError(t, err)

	d := Diagnose(m)
	require.True(t, d.Infeasible())
	require.Len(t, d.InfeasibleShifts, 2)
	require.Equal(t, int32(3), d.InfeasibleShifts[0].Deficit)
	require.Equal(t, date(2026, time.March, 7), d.InfeasibleShifts[0].Date)
	require.Equal(t, int32(1), d.InfeasibleShifts[1].Deficit)
}

func TestDiagnose_CapsIssueList(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MinStaffWeekday = 5
	frueh.MinStaffWeekend = 5
	frueh.MaxStaffWeekend = 5
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	employees := []*domain.Employee{newEmployee(1, ptrInt64(1), domain.CapabilityBMT)}

	b := NewBuilder(domain.DefaultStaffingRules(), employees, []*domain.Team{teamA},
		[]*domain.ShiftType{frueh}, nil, nil)
	m, err := b.Build(date(2026, time.March, 2), date(2026, time.March, 15))
	require.NoError(t, err)

	d := Diagnose(m)
	require.True(t, d.Infeasible())
	require.Len(t, d.InfeasibleShifts, 14)
	require.Len(t, d.Issues, maxIssues)
}
