package utils

import (
	"fmt"
	"sort"
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// The validators below re-check a persisted or freshly solved plan against
// the invariants the scheduler is supposed to guarantee. They are used as a
// safety net after a planning run and by the test suite.

func shiftTypesByID(shiftTypes []*domain.ShiftType) map[int64]*domain.ShiftType {
	m := make(map[int64]*domain.ShiftType, len(shiftTypes))
	for _, st := range shiftTypes {
		m[st.ID] = st
	}
	return m
}

// ValidateCoverage checks min <= assigned count <= max for every active
// (date, shift type) of the range, using the weekday/weekend class of the
// date.
func ValidateCoverage(assignments []*domain.ShiftAssignment, shiftTypes []*domain.ShiftType, start, end time.Time) error {
	counts := make(map[string]map[int64]bool) // date|shiftType -> employee set
	for _, a := range assignments {
		key := a.Date.Format(domain.DateLayout) + "|" + fmt.Sprint(a.ShiftTypeID)
		if counts[key] == nil {
			counts[key] = make(map[int64]bool)
		}
		counts[key][a.EmployeeID] = true
	}

	for _, date := range domain.DaysBetween(start, end) {
		for _, st := range shiftTypes {
			if !st.ActiveOn(date) {
				continue
			}
			minStaff, maxStaff := st.StaffingBounds(date)
			if minStaff == 0 && maxStaff == 0 {
				continue
			}
			key := date.Format(domain.DateLayout) + "|" + fmt.Sprint(st.ID)
			n := int32(len(counts[key]))
			if n < minStaff || n > maxStaff {
				return fmt.Errorf("Schicht %s am %s: %d eingeteilt, erlaubt sind %d bis %d",
					st.Code, date.Format(domain.DateLayout), n, minStaff, maxStaff)
			}
		}
	}

	return nil
}

// ValidateNoDoubleBooking checks that no employee holds more than one shift
// on any date.
func ValidateNoDoubleBooking(assignments []*domain.ShiftAssignment) error {
	seen := make(map[string]int64) // employee|date -> shift type
	for _, a := range assignments {
		key := fmt.Sprintf("%d|%s", a.EmployeeID, a.Date.Format(domain.DateLayout))
		if prev, exists := seen[key]; exists {
			return fmt.Errorf("Mitarbeiter %d ist am %s doppelt eingeteilt (Schichten %d und %d)",
				a.EmployeeID, a.Date.Format(domain.DateLayout), prev, a.ShiftTypeID)
		}
		seen[key] = a.ShiftTypeID
	}
	return nil
}

// ValidateRest checks the minimum rest gap between every pair of consecutive
// assignments of the same employee. A Spät shift directly before a Früh
// shift is the classic violation this catches.
func ValidateRest(assignments []*domain.ShiftAssignment, shiftTypes []*domain.ShiftType, rules domain.StaffingRules) error {
	byID := shiftTypesByID(shiftTypes)
	minRest := time.Duration(rules.MinRestHoursBetweenShifts) * time.Hour

	perEmployee := make(map[int64][]*domain.ShiftAssignment)
	for _, a := range assignments {
		perEmployee[a.EmployeeID] = append(perEmployee[a.EmployeeID], a)
	}

	for employeeID, list := range perEmployee {
		sort.Slice(list, func(i, j int) bool {
			return list[i].Date.Before(list[j].Date)
		})

		for i := 1; i < len(list); i++ {
			prevType, ok := byID[list[i-1].ShiftTypeID]
			if !ok {
				return fmt.Errorf("unbekannter Schichttyp %d", list[i-1].ShiftTypeID)
			}
			nextType, ok := byID[list[i].ShiftTypeID]
			if !ok {
				return fmt.Errorf("unbekannter Schichttyp %d", list[i].ShiftTypeID)
			}

			gap := nextType.StartOn(list[i].Date).Sub(prevType.EndOn(list[i-1].Date))
			if gap < minRest {
				return fmt.Errorf("Mitarbeiter %d hat zwischen %s und %s nur %s Ruhezeit (Minimum %s)",
					employeeID, list[i-1].Date.Format(domain.DateLayout), list[i].Date.Format(domain.DateLayout), gap, minRest)
			}
		}
	}

	return nil
}

// ValidateAbsenceExclusion checks that nobody is scheduled inside their own
// absence interval.
func ValidateAbsenceExclusion(assignments []*domain.ShiftAssignment, absences []*domain.Absence) error {
	for _, a := range assignments {
		if domain.AbsentOn(absences, a.EmployeeID, a.Date) {
			return fmt.Errorf("Mitarbeiter %d ist am %s trotz Abwesenheit eingeteilt",
				a.EmployeeID, a.Date.Format(domain.DateLayout))
		}
	}
	return nil
}
