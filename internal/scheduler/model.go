package scheduler

import (
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

// Slot is one (date, shift type) pair the plan has to staff.
type Slot struct {
	Date      time.Time
	ShiftType *domain.ShiftType
	MinStaff  int32
	MaxStaff  int32
	// Eligible holds the ids of every employee who may legally fill this
	// slot: active, not absent on the date and either team-linked to the
	// shift type or globally eligible (Springer / Ferienjobber).
	Eligible []int64
}

// Model is the fully specified combinatorial problem: one boolean decision
// per (employee, date, eligible shift type), hard constraints and a soft
// objective. It is built once per planning run and never mutated afterwards.
type Model struct {
	Start time.Time
	End   time.Time
	Days  []time.Time
	Rules domain.StaffingRules

	Slots     []Slot
	Employees map[int64]*domain.Employee

	// TargetHours is the horizon target per employee (weekly hours times the
	// complete weeks in the horizon), treated as a soft minimum.
	TargetHours map[int64]float64

	// DayDutyRequired marks dates that need at least one assignment from a
	// day-duty (BMT/BSB) qualified employee.
	DayDutyRequired map[time.Time]bool

	// TotalEmployees / AvailableEmployees feed the infeasibility diagnostics.
	TotalEmployees     int
	AvailableEmployees int

	slotsByDate  map[time.Time][]int
	rotationRank map[int64]map[int64]int32
}

// Soft objective weights, ordered so that a full level of the higher term
// always dominates the lower one.
const (
	hardViolationPenalty = 1e6
	shortfallWeight      = 10.0
	rotationWeight       = 1.0
	overstaffWeight      = 0.5
)

// rotationPenalty scores the transition from one shift type to the next day's
// shift type. The most preferred successor costs nothing, lower priorities
// cost their rank, an unrelated transition costs a flat default.
func (m *Model) rotationPenalty(fromShiftTypeID, toShiftTypeID int64) float64 {
	if fromShiftTypeID == toShiftTypeID {
		return 0
	}
	if ranks, ok := m.rotationRank[fromShiftTypeID]; ok {
		if rank, ok := ranks[toShiftTypeID]; ok {
			return float64(rank)
		}
	}
	return 2
}

// employeeDay is a single day of one employee's schedule.
type employeeDay struct {
	date      time.Time
	shiftType *domain.ShiftType
}

// schedulesOf collapses a candidate plan into per-employee day sequences,
// ordered by date. Plans with same-day double bookings keep every entry so
// the violation can be counted.
func (m *Model) schedulesOf(plan [][]int64) map[int64][]employeeDay {
	schedules := make(map[int64][]employeeDay)
	for i, ids := range plan {
		slot := &m.Slots[i]
		for _, id := range ids {
			schedules[id] = append(schedules[id], employeeDay{date: slot.Date, shiftType: slot.ShiftType})
		}
	}
	for _, days := range schedules {
		sortEmployeeDays(days)
	}
	return schedules
}

func sortEmployeeDays(days []employeeDay) {
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j].date.Before(days[j-1].date); j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
}

// Violations counts hard constraint violations of a candidate plan. plan must
// have one employee id list per model slot, in slot order. A plan with zero
// violations is feasible.
func (m *Model) Violations(plan [][]int64) int {
	violations := 0

	// coverage bounds per slot, duplicates count as one head
	for i, ids := range plan {
		slot := &m.Slots[i]
		distinct := make(map[int64]bool, len(ids))
		for _, id := range ids {
			distinct[id] = true
		}
		n := int32(len(distinct))
		if n < slot.MinStaff || n > slot.MaxStaff {
			violations++
		}
		if len(ids) != len(distinct) {
			violations++
		}
	}

	schedules := m.schedulesOf(plan)

	for _, days := range schedules {
		// at most one shift per day
		for i := 1; i < len(days); i++ {
			if days[i].date.Equal(days[i-1].date) {
				violations++
			}
		}

		// max consecutive working days / nights
		violations += countRunViolations(days, int(m.Rules.MaxConsecutiveShifts), func(d employeeDay) bool { return true })
		violations += countRunViolations(days, int(m.Rules.MaxConsecutiveNightShifts), func(d employeeDay) bool { return d.shiftType.IsNight })

		// minimum rest between consecutive assignments
		minRest := time.Duration(m.Rules.MinRestHoursBetweenShifts) * time.Hour
		for i := 1; i < len(days); i++ {
			prevEnd := days[i-1].shiftType.EndOn(days[i-1].date)
			nextStart := days[i].shiftType.StartOn(days[i].date)
			if nextStart.Sub(prevEnd) < minRest {
				violations++
			}
		}
	}

	// day-duty coverage
	for date, required := range m.DayDutyRequired {
		if !required {
			continue
		}
		covered := false
		for _, slotIdx := range m.slotsByDate[date] {
			for _, id := range plan[slotIdx] {
				if e, ok := m.Employees[id]; ok && e.DayDutyQualified() {
					covered = true
					break
				}
			}
			if covered {
				break
			}
		}
		if !covered {
			violations++
		}
	}

	return violations
}

// countRunViolations counts, for one employee, the days by which consecutive
// runs of matching assignments exceed the limit.
func countRunViolations(days []employeeDay, limit int, match func(employeeDay) bool) int {
	if limit <= 0 {
		return 0
	}

	violations := 0
	run := 0
	var prev time.Time

	for _, d := range days {
		if !match(d) {
			run = 0
			continue
		}
		if run > 0 && d.date.Sub(prev) == 24*time.Hour {
			run++
		} else if run > 0 && d.date.Equal(prev) {
			// double booking, counted elsewhere
			continue
		} else {
			run = 1
		}
		prev = d.date
		if run > limit {
			violations++
		}
	}

	return violations
}

// SoftPenalty scores a candidate plan against the soft objective: target
// hours shortfall first, rotation preference second, overstaffing last.
func (m *Model) SoftPenalty(plan [][]int64) float64 {
	penalty := 0.0

	hours := make(map[int64]float64)
	for i, ids := range plan {
		slot := &m.Slots[i]
		for _, id := range ids {
			hours[id] += slot.ShiftType.DurationHours
		}
		if extra := int32(len(ids)) - slot.MinStaff; extra > 0 {
			penalty += overstaffWeight * float64(extra)
		}
	}

	for id, target := range m.TargetHours {
		if shortfall := target - hours[id]; shortfall > 0 {
			penalty += shortfallWeight * shortfall
		}
	}

	for _, days := range m.schedulesOf(plan) {
		for i := 1; i < len(days); i++ {
			if days[i].date.Sub(days[i-1].date) == 24*time.Hour {
				penalty += rotationWeight * m.rotationPenalty(days[i-1].shiftType.ID, days[i].shiftType.ID)
			}
		}
	}

	return penalty
}

// Assignments materializes a candidate plan as persistable shift assignments.
func (m *Model) Assignments(plan [][]int64) []*domain.ShiftAssignment {
	assignments := []*domain.ShiftAssignment{}
	for i, ids := range plan {
		slot := &m.Slots[i]
		for _, id := range ids {
			assignments = append(assignments, &domain.ShiftAssignment{
				EmployeeID:  id,
				ShiftTypeID: slot.ShiftType.ID,
				Date:        slot.Date,
			})
		}
	}
	return assignments
}
