package domain

import "time"

type NotificationSeverity string

const (
	SeverityWarning  NotificationSeverity = "WARNING"
	SeverityHigh     NotificationSeverity = "HIGH"
	SeverityCritical NotificationSeverity = "CRITICAL"
)

const NotificationTypeUnderstaffing = "understaffing"

type AdminNotification struct {
	ID            int64                `json:"id"`
	Type          string               `json:"type"`
	Severity      NotificationSeverity `json:"severity"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	ShiftDate     time.Time            `json:"shiftDate"`
	ShiftCode     string               `json:"shiftCode"`
	TeamID        *int64               `json:"teamID"`
	EmployeeID    *int64               `json:"employeeID"`
	AbsenceID     *int64               `json:"absenceID"`
	RequiredStaff int32                `json:"requiredStaff"`
	ActualStaff   int32                `json:"actualStaff"`
	IsRead        bool                 `json:"isRead"`
	ReadAt        *time.Time           `json:"readAt"`
	ReadBy        *int64               `json:"readBy"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// GradeUnderstaffing maps a staffing shortfall onto a notification severity.
// No staff at all is critical, a deficit of two or more is high, anything
// else is a warning.
func GradeUnderstaffing(required, actual int32) NotificationSeverity {
	switch {
	case actual == 0:
		return SeverityCritical
	case required-actual >= 2:
		return SeverityHigh
	default:
		return SeverityWarning
	}
}
