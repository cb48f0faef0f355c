package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// ShiftDiagnosis explains one structurally unstaffable (date, shift type).
type ShiftDiagnosis struct {
	ShiftCode string    `json:"shiftCode"`
	Date      time.Time `json:"date"`
	Required  int32     `json:"required"`
	Eligible  int32     `json:"eligible"`
	Deficit   int32     `json:"deficit"`
}

// Diagnostics explains infeasibility in domain terms. Every entry is derived
// from a structural check over the model, never from solver internals (the
// search gives no explanation facility to rely on).
type Diagnostics struct {
	TotalEmployees     int              `json:"totalEmployees"`
	AvailableEmployees int              `json:"availableEmployees"`
	InfeasibleShifts   []ShiftDiagnosis `json:"infeasibleShifts"`
	Issues             []string         `json:"issues"`

	structurallyInfeasible bool
}

func (d *Diagnostics) Infeasible() bool {
	return len(d.InfeasibleShifts) > 0 || d.structurallyInfeasible
}

const maxIssues = 5

// Diagnose runs the structural feasibility checks: per-slot eligible pool vs
// minimum headcount, per-day capacity vs the sum of slot minima, and day-duty
// qualification coverage.
func Diagnose(m *Model) *Diagnostics {
	d := &Diagnostics{
		TotalEmployees:     m.TotalEmployees,
		AvailableEmployees: m.AvailableEmployees,
	}

	// a slot whose eligible pool is smaller than its minimum can never be
	// staffed, regardless of what the search does
	for i := range m.Slots {
		slot := &m.Slots[i]
		if int32(len(slot.Eligible)) < slot.MinStaff {
			d.InfeasibleShifts = append(d.InfeasibleShifts, ShiftDiagnosis{
				ShiftCode: slot.ShiftType.Code,
				Date:      slot.Date,
				Required:  slot.MinStaff,
				Eligible:  int32(len(slot.Eligible)),
				Deficit:   slot.MinStaff - int32(len(slot.Eligible)),
			})
		}
	}

	// each employee works at most one shift per day, so the distinct pool of
	// a day must cover the sum of that day's minima
	for _, date := range m.Days {
		var requiredTotal int32
		pool := make(map[int64]bool)
		for _, slotIdx := range m.slotsByDate[date] {
			slot := &m.Slots[slotIdx]
			requiredTotal += slot.MinStaff
			for _, id := range slot.Eligible {
				pool[id] = true
			}
		}
		if requiredTotal > int32(len(pool)) {
			d.structurallyInfeasible = true
			d.Issues = append(d.Issues, fmt.Sprintf(
				"Am %s stehen %d Mitarbeiter für insgesamt %d Pflichtplätze zur Verfügung (absences exceed available staff)",
				date.Format(domain.DateLayout), len(pool), requiredTotal))
		}

		if m.DayDutyRequired[date] && !dayDutyCoverable(m, date) {
			d.structurallyInfeasible = true
			d.Issues = append(d.Issues, fmt.Sprintf(
				"Am %s ist kein BMT/BSB-qualifizierter Mitarbeiter einsetzbar (no day-duty qualified employee available)",
				date.Format(domain.DateLayout)))
		}
	}

	// worst shortfalls first, then chronological
	sort.Slice(d.InfeasibleShifts, func(i, j int) bool {
		if d.InfeasibleShifts[i].Deficit != d.InfeasibleShifts[j].Deficit {
			return d.InfeasibleShifts[i].Deficit > d.InfeasibleShifts[j].Deficit
		}
		return d.InfeasibleShifts[i].Date.Before(d.InfeasibleShifts[j].Date)
	})

	issues := make([]string, 0, maxIssues)
	for _, s := range d.InfeasibleShifts {
		if len(issues) == maxIssues {
			break
		}
		issues = append(issues, fmt.Sprintf(
			"Schicht %s am %s: %d benötigt, nur %d einsetzbar (shift %s short by %d)",
			s.ShiftCode, s.Date.Format(domain.DateLayout), s.Required, s.Eligible, s.ShiftCode, s.Deficit))
	}
	for _, issue := range d.Issues {
		if len(issues) == maxIssues {
			break
		}
		issues = append(issues, issue)
	}
	d.Issues = issues

	return d
}

func dayDutyCoverable(m *Model, date time.Time) bool {
	for _, slotIdx := range m.slotsByDate[date] {
		for _, id := range m.Slots[slotIdx].Eligible {
			if e, ok := m.Employees[id]; ok && e.DayDutyQualified() {
				return true
			}
		}
	}
	return false
}
