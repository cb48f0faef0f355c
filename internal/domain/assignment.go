package domain

import "time"

// ShiftAssignment places one employee into one shift type on one date.
// The tuple (employee, shift type, date) is unique; the database enforces it.
type ShiftAssignment struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeID"`
	ShiftTypeID int64     `json:"shiftTypeID"`
	Date        time.Time `json:"date"`
	// IsManual marks assignments created by hand rather than by a planning run.
	IsManual bool `json:"isManual"`
	// IsSubstitute marks assignments created by the Springer engine.
	IsSubstitute bool `json:"isSubstitute"`
	// IsFixed locks the assignment against deletion during a bulk re-plan.
	IsFixed   bool      `json:"isFixed"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
