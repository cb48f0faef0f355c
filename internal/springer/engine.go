// Package springer is the reactive repair engine: when an absence is
// recorded, it finds the planned shifts that lost required coverage and
// fills each gap from an ordered pool of eligible substitutes.
package springer

import (
	"sort"
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/staffing"
)

type Store interface {
	GetAllEmployees() ([]*domain.Employee, error)
	GetShiftTypeByID(id int64) (*domain.ShiftType, error)
	GetAssignmentsByDate(date time.Time) ([]*domain.ShiftAssignment, error)
	GetAssignmentsByEmployeeInRange(employeeID int64, start, end time.Time) ([]*domain.ShiftAssignment, error)
	GetAbsencesOverlapping(start, end time.Time) ([]*domain.Absence, error)
	CreateAssignment(a *domain.ShiftAssignment) error
}

// Tier names the substitute pool a replacement was drawn from.
type Tier string

const (
	TierTeamSpringer  Tier = "team_springer"
	TierCrossSpringer Tier = "cross_team_springer"
	TierFerienjobber  Tier = "ferienjobber"
)

type Detail struct {
	Date         time.Time `json:"date"`
	ShiftCode    string    `json:"shiftCode"`
	Resolved     bool      `json:"resolved"`
	SubstituteID *int64    `json:"substituteID"`
	Tier         Tier      `json:"tier,omitempty"`
	Note         string    `json:"note"`
}

type Summary struct {
	AssignmentsCreated    int      `json:"assignmentsCreated"`
	ShiftsNeedingCoverage int      `json:"shiftsNeedingCoverage"`
	NotificationsSent     int      `json:"notificationsSent"`
	Details               []Detail `json:"details"`
}

type Engine struct {
	store    Store
	staffing *staffing.Service
}

func NewEngine(store Store, staffingSvc *staffing.Service) *Engine {
	return &Engine{
		store:    store,
		staffing: staffingSvc,
	}
}

// ProcessAbsenceForReplacement repairs the coverage lost to one absence. The
// procedure is idempotent: shifts whose staffing is already satisfied are
// skipped, and the assignment uniqueness key blocks duplicate substitutions
// on a re-run. Gaps that no tier can close are reported, never retried.
func (e *Engine) ProcessAbsenceForReplacement(absence *domain.Absence) (*Summary, error) {
	summary := &Summary{Details: []Detail{}}

	employees, err := e.store.GetAllEmployees()
	if err != nil {
		return nil, err
	}

	absent := findEmployee(employees, absence.EmployeeID)

	assignments, err := e.store.GetAssignmentsByEmployeeInRange(absence.EmployeeID, absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, err
	}

	shiftTypes := make(map[int64]*domain.ShiftType)

	for _, a := range assignments {
		if !absence.Covers(a.Date) {
			continue
		}

		shiftType, ok := shiftTypes[a.ShiftTypeID]
		if !ok {
			shiftType, err = e.store.GetShiftTypeByID(a.ShiftTypeID)
			if err != nil {
				return summary, err
			}
			shiftTypes[a.ShiftTypeID] = shiftType
		}

		detail, err := e.coverShift(absent, absence, shiftType, a.Date, employees)
		if err != nil {
			return summary, err
		}
		if detail == nil {
			continue // no deficit, nothing to repair
		}

		if detail.Resolved {
			summary.AssignmentsCreated++
		} else {
			summary.ShiftsNeedingCoverage++
		}
		summary.Details = append(summary.Details, *detail)
	}

	return summary, nil
}

// coverShift repairs one (date, shift type). Returns nil when the shift has
// no deficit.
func (e *Engine) coverShift(absent *domain.Employee, absence *domain.Absence, shiftType *domain.ShiftType, date time.Time, employees []*domain.Employee) (*Detail, error) {
	date = domain.NormalizeDate(date)

	report, err := e.staffing.CheckStaffing(date, shiftType.Code)
	if err != nil {
		return nil, err
	}
	if !report.Understaffed {
		return nil, nil
	}

	dayAssignments, err := e.store.GetAssignmentsByDate(date)
	if err != nil {
		return nil, err
	}
	dayAbsences, err := e.store.GetAbsencesOverlapping(date, date)
	if err != nil {
		return nil, err
	}

	candidate, tier := e.findSubstitute(absent, date, employees, dayAssignments, dayAbsences)
	if candidate == nil {
		// report, don't retry: the understaffing notification is the only
		// surfaced signal for this gap
		return &Detail{
			Date:      date,
			ShiftCode: shiftType.Code,
			Resolved:  false,
			Note:      "kein Springer oder Ferienjobber verfügbar",
		}, nil
	}

	substitute := &domain.ShiftAssignment{
		EmployeeID:   candidate.ID,
		ShiftTypeID:  shiftType.ID,
		Date:         date,
		IsSubstitute: true,
	}
	if err := e.store.CreateAssignment(substitute); err != nil {
		return nil, err
	}

	// confirm the deficit is gone before claiming success
	after, err := e.staffing.CheckStaffing(date, shiftType.Code)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Date:         date,
		ShiftCode:    shiftType.Code,
		Resolved:     !after.Understaffed,
		SubstituteID: &candidate.ID,
		Tier:         tier,
		Note:         "Ersatz eingeteilt: " + candidate.FullName(),
	}, nil
}

// findSubstitute walks the strict tier order: the absent employee's own team
// Springer, then any other team's Springer, then the Ferienjobber pool. Ties
// inside a tier break on the lowest employee id so repeated runs distribute
// deterministically.
func (e *Engine) findSubstitute(absent *domain.Employee, date time.Time, employees []*domain.Employee, dayAssignments []*domain.ShiftAssignment, dayAbsences []*domain.Absence) (*domain.Employee, Tier) {
	assignedToday := make(map[int64]bool)
	for _, a := range dayAssignments {
		if domain.NormalizeDate(a.Date).Equal(date) {
			assignedToday[a.EmployeeID] = true
		}
	}

	available := func(c *domain.Employee) bool {
		if !c.IsActive || assignedToday[c.ID] {
			return false
		}
		if absent != nil && c.ID == absent.ID {
			return false
		}
		return !domain.AbsentOn(dayAbsences, c.ID, date)
	}

	var teamSpringer, crossSpringer, ferienjobber []*domain.Employee
	for _, c := range employees {
		if !available(c) {
			continue
		}
		switch {
		case c.IsSpringer() && sameTeam(absent, c):
			teamSpringer = append(teamSpringer, c)
		case c.IsSpringer():
			crossSpringer = append(crossSpringer, c)
		case c.IsFerienjobber():
			ferienjobber = append(ferienjobber, c)
		}
	}

	for _, tier := range []struct {
		pool []*domain.Employee
		name Tier
	}{
		{teamSpringer, TierTeamSpringer},
		{crossSpringer, TierCrossSpringer},
		{ferienjobber, TierFerienjobber},
	} {
		if len(tier.pool) == 0 {
			continue
		}
		sort.Slice(tier.pool, func(i, j int) bool {
			return tier.pool[i].ID < tier.pool[j].ID
		})
		return tier.pool[0], tier.name
	}

	return nil, ""
}

func sameTeam(a, b *domain.Employee) bool {
	return a != nil && a.TeamID != nil && b.TeamID != nil && *a.TeamID == *b.TeamID
}

func findEmployee(employees []*domain.Employee, id int64) *domain.Employee {
	for _, e := range employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}
