package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrInt64(v int64) *int64 {
	return &v
}

var allWeek = [7]bool{true, true, true, true, true, true, true}

func newShiftType(id int64, code, start, end string, isNight bool) *domain.ShiftType {
	return &domain.ShiftType{
		ID:              id,
		Code:            code,
		Name:            code,
		StartTime:       start,
		EndTime:         end,
		DurationHours:   8,
		WeeklyHours:     40,
		ActiveWeekdays:  allWeek,
		MinStaffWeekday: 1,
		MaxStaffWeekday: 2,
		MinStaffWeekend: 1,
		MaxStaffWeekend: 2,
		IsNight:         isNight,
	}
}

func newEmployee(id int64, teamID *int64, caps ...domain.Capability) *domain.Employee {
	return &domain.Employee{
		ID:           id,
		FirstName:    "Test",
		LastName:     "Person",
		Role:         domain.RoleMitarbeiter,
		TeamID:       teamID,
		WeeklyHours:  40,
		Capabilities: domain.CapabilitySet(caps),
		IsActive:     true,
	}
}

func TestBuild_RejectsInvertedRange(t *testing.T) {
	b := NewBuilder(domain.DefaultStaffingRules(), nil, nil, nil, nil, nil)
	_, err := b.Build(date(2026, time.March, 5), date(2026, time.March, 1))
	require.Error(t, err)
}

func TestBuild_EligibilityFollowsTeamLinks(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	teamB := &domain.Team{ID: 2, Name: "B", ShiftTypeIDs: []int64{}} // not linked to F

	linked := newEmployee(1, ptrInt64(1))
	unlinked := newEmployee(2, ptrInt64(2))
	springer := newEmployee(3, ptrInt64(2), domain.CapabilitySpringer)
	ferienjobber := newEmployee(4, nil, domain.CapabilityFerienjobber)
	inactive := newEmployee(5, ptrInt64(1))
	inactive.IsActive = false

	b := NewBuilder(domain.DefaultStaffingRules(),
		[]*domain.Employee{linked, unlinked, springer, ferienjobber, inactive},
		[]*domain.Team{teamA, teamB},
		[]*domain.ShiftType{frueh},
		nil, nil)

	day := date(2026, time.March, 2) // a Monday
	m, err := b.Build(day, day)
	require.NoError(t, err)
	require.Len(t, m.Slots, 1)

	// team member, cross-team springer and ferienjobber qualify; a member of
	// an unlinked team and an inactive employee do not
	require.ElementsMatch(t, []int64{1, 3, 4}, m.Slots[0].Eligible)
}

func TestBuild_AbsenceRemovesEligibility(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	e1 := newEmployee(1, ptrInt64(1))
	e2 := newEmployee(2, ptrInt64(1))

	absence := &domain.Absence{
		EmployeeID: 1,
		Type:       domain.AbsenceKrank,
		StartDate:  date(2026, time.March, 2),
		EndDate:    date(2026, time.March, 3),
	}

	b := NewBuilder(domain.DefaultStaffingRules(),
		[]*domain.Employee{e1, e2},
		[]*domain.Team{teamA},
		[]*domain.ShiftType{frueh},
		nil,
		[]*domain.Absence{absence})

	m, err := b.Build(date(2026, time.March, 2), date(2026, time.March, 4))
	require.NoError(t, err)
	require.Len(t, m.Slots, 3)

	require.Equal(t, []int64{2}, m.Slots[0].Eligible)              // absent on day 1
	require.Equal(t, []int64{2}, m.Slots[1].Eligible)              // absent on day 2
	require.ElementsMatch(t, []int64{1, 2}, m.Slots[2].Eligible)   // back on day 3
	require.Equal(t, 2, m.TotalEmployees)
	require.Equal(t, 1, m.AvailableEmployees)
}

func TestBuild_WeekendBoundsAndZeroBoundSkip(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.MinStaffWeekday = 3
	frueh.MaxStaffWeekday = 5
	frueh.MinStaffWeekend = 2
	frueh.MaxStaffWeekend = 4

	tagdienst := newShiftType(2, "TD", "08:00:00", "16:00:00", false)
	tagdienst.MinStaffWeekend = 0
	tagdienst.MaxStaffWeekend = 0 // does not run on weekends

	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1, 2}}
	e1 := newEmployee(1, ptrInt64(1))

	b := NewBuilder(domain.DefaultStaffingRules(),
		[]*domain.Employee{e1},
		[]*domain.Team{teamA},
		[]*domain.ShiftType{frueh, tagdienst},
		nil, nil)

	// Friday and Saturday
	m, err := b.Build(date(2026, time.March, 6), date(2026, time.March, 7))
	require.NoError(t, err)
	require.Len(t, m.Slots, 3) // F+TD on Friday, only F on Saturday

	friday := m.Slots[0]
	require.Equal(t, int32(3), friday.MinStaff)
	require.Equal(t, int32(5), friday.MaxStaff)

	saturday := m.Slots[2]
	require.Equal(t, "F", saturday.ShiftType.Code)
	require.Equal(t, int32(2), saturday.MinStaff)
	require.Equal(t, int32(4), saturday.MaxStaff)
}

func TestBuild_DayDutyRequiredOnlyOnStaffedWorkingDays(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	frueh.ActiveWeekdays = [7]bool{false, true, true, true, true, true, false}
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	e1 := newEmployee(1, ptrInt64(1), domain.CapabilityBMT)

	b := NewBuilder(domain.DefaultStaffingRules(),
		[]*domain.Employee{e1},
		[]*domain.Team{teamA},
		[]*domain.ShiftType{frueh},
		nil, nil)

	// Friday through Monday
	m, err := b.Build(date(2026, time.March, 6), date(2026, time.March, 9))
	require.NoError(t, err)

	require.True(t, m.DayDutyRequired[date(2026, time.March, 6)])
	require.False(t, m.DayDutyRequired[date(2026, time.March, 7)]) // Saturday
	require.False(t, m.DayDutyRequired[date(2026, time.March, 8)]) // Sunday
	require.True(t, m.DayDutyRequired[date(2026, time.March, 9)])
}

func TestBuild_TargetHoursScaleWithHorizon(t *testing.T) {
	frueh := newShiftType(1, "F", "06:00:00", "14:00:00", false)
	teamA := &domain.Team{ID: 1, Name: "A", ShiftTypeIDs: []int64{1}}
	e1 := newEmployee(1, ptrInt64(1))
	e1.WeeklyHours = 38.5

	b := NewBuilder(domain.DefaultStaffingRules(),
		[]*domain.Employee{e1},
		[]*domain.Team{teamA},
		[]*domain.ShiftType{frueh},
		nil, nil)

	m, err := b.Build(date(2026, time.March, 2), date(2026, time.March, 15)) // 14 days
	require.NoError(t, err)
	require.InDelta(t, 77.0, m.TargetHours[1], 1e-9)

	// only complete weeks count: 48h/week over a 31-day month targets 192h,
	// not 48*31/7
	e1.WeeklyHours = 48
	m, err = b.Build(date(2026, time.January, 1), date(2026, time.January, 31))
	require.NoError(t, err)
	require.InDelta(t, 192.0, m.TargetHours[1], 1e-9)
}
