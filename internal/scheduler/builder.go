package scheduler

import (
	"errors"
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// Builder turns master data, absences and a date range into a Model. It owns
// every eligibility decision; the solver only ever picks from the pools the
// builder has prepared.
type Builder struct {
	rules         domain.StaffingRules
	employees     []*domain.Employee
	teams         []*domain.Team
	shiftTypes    []*domain.ShiftType
	relationships []*domain.ShiftTypeRelationship
	absences      []*domain.Absence
}

func NewBuilder(
	rules domain.StaffingRules,
	employees []*domain.Employee,
	teams []*domain.Team,
	shiftTypes []*domain.ShiftType,
	relationships []*domain.ShiftTypeRelationship,
	absences []*domain.Absence,
) *Builder {
	return &Builder{
		rules:         rules,
		employees:     employees,
		teams:         teams,
		shiftTypes:    shiftTypes,
		relationships: relationships,
		absences:      absences,
	}
}

// eligible decides whether an employee may fill the given shift type on the
// given date. Springer and Ferienjobber are eligible for any team's shift
// types; everyone else needs a non-virtual team linked to the shift type.
func (b *Builder) eligible(e *domain.Employee, st *domain.ShiftType, date time.Time, teamsByID map[int64]*domain.Team) bool {
	if !e.IsActive {
		return false
	}
	if domain.AbsentOn(b.absences, e.ID, date) {
		return false
	}
	if e.CrossTeamEligible() {
		return true
	}
	if e.TeamID == nil {
		return false
	}
	team, ok := teamsByID[*e.TeamID]
	if !ok || team.IsVirtual {
		return false
	}
	return team.MayStaff(st.ID)
}

// Build produces the constraint model for the inclusive range [start, end].
func (b *Builder) Build(start, end time.Time) (*Model, error) {
	start = domain.NormalizeDate(start)
	end = domain.NormalizeDate(end)
	if end.Before(start) {
		return nil, errors.New("end date before start date")
	}

	teamsByID := make(map[int64]*domain.Team, len(b.teams))
	for _, t := range b.teams {
		teamsByID[t.ID] = t
	}

	days := domain.DaysBetween(start, end)
	// target hours scale by complete weeks, so a 31-day month counts four
	weeks := float64(len(days) / 7)

	m := &Model{
		Start:           start,
		End:             end,
		Days:            days,
		Rules:           b.rules,
		Employees:       make(map[int64]*domain.Employee),
		TargetHours:     make(map[int64]float64),
		DayDutyRequired: make(map[time.Time]bool),
		slotsByDate:     make(map[time.Time][]int),
		rotationRank:    make(map[int64]map[int64]int32),
	}

	m.TotalEmployees = len(b.employees)
	for _, e := range b.employees {
		if !e.IsActive {
			continue
		}
		m.Employees[e.ID] = e
		m.TargetHours[e.ID] = e.WeeklyHours * weeks

		absent := false
		for _, a := range b.absences {
			if a.EmployeeID == e.ID && a.Overlaps(start, end) {
				absent = true
				break
			}
		}
		if !absent {
			m.AvailableEmployees++
		}
	}

	for _, rel := range b.relationships {
		if _, ok := m.rotationRank[rel.ShiftTypeID]; !ok {
			m.rotationRank[rel.ShiftTypeID] = make(map[int64]int32)
		}
		m.rotationRank[rel.ShiftTypeID][rel.RelatedTypeID] = rel.Priority
	}

	for _, date := range days {
		for _, st := range b.shiftTypes {
			if !st.ActiveOn(date) {
				continue
			}
			minStaff, maxStaff := st.StaffingBounds(date)
			if minStaff == 0 && maxStaff == 0 {
				// the shift type does not run in this weekday class
				continue
			}

			slot := Slot{
				Date:      date,
				ShiftType: st,
				MinStaff:  minStaff,
				MaxStaff:  maxStaff,
			}
			for _, e := range b.employees {
				if b.eligible(e, st, date, teamsByID) {
					slot.Eligible = append(slot.Eligible, e.ID)
				}
			}

			m.slotsByDate[date] = append(m.slotsByDate[date], len(m.Slots))
			m.Slots = append(m.Slots, slot)
		}

		// Tagdienst presence is required on working days that run any shift.
		m.DayDutyRequired[date] = !domain.IsWeekend(date) && len(m.slotsByDate[date]) > 0
	}

	return m, nil
}
