// Package staffing answers one question: is a given shift on a given date
// sufficiently staffed once absences are taken into account? Both the
// notification manager and the Springer engine go through this service, so
// the absence-aware join is computed with one set of semantics.
package staffing

import (
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

type Store interface {
	GetShiftTypeByCode(code string) (*domain.ShiftType, error)
	GetAssignmentsByDate(date time.Time) ([]*domain.ShiftAssignment, error)
	GetAbsencesOverlapping(start, end time.Time) ([]*domain.Absence, error)
}

type Report struct {
	ShiftCode    string    `json:"shiftCode"`
	Date         time.Time `json:"date"`
	Required     int32     `json:"required"`
	Actual       int32     `json:"actual"`
	Understaffed bool      `json:"understaffed"`
}

func (r *Report) Deficit() int32 {
	if r.Actual >= r.Required {
		return 0
	}
	return r.Required - r.Actual
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CheckStaffing compares the configured minimum of the shift's weekday class
// against the distinct employees assigned on that date, minus anyone with an
// overlapping absence.
func (s *Service) CheckStaffing(date time.Time, shiftCode string) (*Report, error) {
	date = domain.NormalizeDate(date)

	shiftType, err := s.store.GetShiftTypeByCode(shiftCode)
	if err != nil {
		return nil, err
	}

	assignments, err := s.store.GetAssignmentsByDate(date)
	if err != nil {
		return nil, err
	}

	absences, err := s.store.GetAbsencesOverlapping(date, date)
	if err != nil {
		return nil, err
	}

	return Evaluate(shiftType, date, assignments, absences), nil
}

// Evaluate is the pure core of CheckStaffing, shared with callers that have
// already loaded a snapshot.
func Evaluate(shiftType *domain.ShiftType, date time.Time, assignments []*domain.ShiftAssignment, absences []*domain.Absence) *Report {
	date = domain.NormalizeDate(date)
	required, _ := shiftType.StaffingBounds(date)

	present := make(map[int64]bool)
	for _, a := range assignments {
		if a.ShiftTypeID != shiftType.ID || !domain.NormalizeDate(a.Date).Equal(date) {
			continue
		}
		if domain.AbsentOn(absences, a.EmployeeID, date) {
			continue
		}
		present[a.EmployeeID] = true
	}

	actual := int32(len(present))
	return &Report{
		ShiftCode:    shiftType.Code,
		Date:         date,
		Required:     required,
		Actual:       actual,
		Understaffed: actual < required,
	}
}
