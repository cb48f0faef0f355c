package domain

import "time"

type AbsenceType string

const (
	AbsenceKrank    AbsenceType = "krank"    // sick
	AbsenceUrlaub   AbsenceType = "urlaub"   // vacation
	AbsenceLehrgang AbsenceType = "lehrgang" // training
)

// Absence blocks an employee from any shift on every day of the inclusive
// interval [StartDate, EndDate].
type Absence struct {
	ID         int64       `json:"id"`
	EmployeeID int64       `json:"employeeID"`
	Type       AbsenceType `json:"type"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
	Version    int32       `json:"-"`
}

func (a *Absence) Covers(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(a.StartDate)) && !d.After(NormalizeDate(a.EndDate))
}

func (a *Absence) Overlaps(start, end time.Time) bool {
	return !NormalizeDate(a.StartDate).After(NormalizeDate(end)) &&
		!NormalizeDate(a.EndDate).Before(NormalizeDate(start))
}

// AbsentOn reports whether the given employee has any absence covering date.
func AbsentOn(absences []*Absence, employeeID int64, date time.Time) bool {
	for _, a := range absences {
		if a.EmployeeID == employeeID && a.Covers(date) {
			return true
		}
	}
	return false
}
