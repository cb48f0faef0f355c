// Package notification raises and manages understaffing alerts.
package notification

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/staffing"
)

type Store interface {
	GetEmployeeByID(id int64) (*domain.Employee, error)
	GetShiftTypeByID(id int64) (*domain.ShiftType, error)
	GetAssignmentsByEmployeeInRange(employeeID int64, start, end time.Time) ([]*domain.ShiftAssignment, error)
	CreateNotification(n *domain.AdminNotification) error
	GetUnreadNotifications(limit int) ([]*domain.AdminNotification, error)
	MarkNotificationRead(id int64, readBy int64) error
	MarkAllNotificationsRead(readBy int64) error
}

// Publisher hands a rendered alert to the mail pipeline. Publishing is
// best-effort: a broker outage must not block absence processing.
type Publisher interface {
	PublishMail(msg domain.MailMessage) error
}

type Manager struct {
	store     Store
	staffing  *staffing.Service
	publisher Publisher
}

func NewManager(store Store, staffingSvc *staffing.Service, publisher Publisher) *Manager {
	return &Manager{
		store:     store,
		staffing:  staffingSvc,
		publisher: publisher,
	}
}

// ProcessAbsence walks every day of the absence and re-evaluates staffing for
// each shift the absent employee was assigned to. The staffing check excludes
// absent employees by construction, so it already sees the world without the
// caller's absence. One notification is created per resulting shortfall.
func (m *Manager) ProcessAbsence(absence *domain.Absence) ([]*domain.AdminNotification, error) {
	employee, err := m.store.GetEmployeeByID(absence.EmployeeID)
	if err != nil {
		return nil, err
	}

	assignments, err := m.store.GetAssignmentsByEmployeeInRange(absence.EmployeeID, absence.StartDate, absence.EndDate)
	if err != nil {
		return nil, err
	}

	shiftTypes := make(map[int64]*domain.ShiftType)
	notifications := []*domain.AdminNotification{}

	for _, a := range assignments {
		if !absence.Covers(a.Date) {
			continue
		}

		shiftType, ok := shiftTypes[a.ShiftTypeID]
		if !ok {
			shiftType, err = m.store.GetShiftTypeByID(a.ShiftTypeID)
			if err != nil {
				return notifications, err
			}
			shiftTypes[a.ShiftTypeID] = shiftType
		}

		report, err := m.staffing.CheckStaffing(a.Date, shiftType.Code)
		if err != nil {
			return notifications, err
		}
		if !report.Understaffed {
			continue
		}

		n := m.buildNotification(absence, employee, report)
		if err := m.store.CreateNotification(n); err != nil {
			return notifications, err
		}
		notifications = append(notifications, n)

		m.publishAlert(n)
	}

	return notifications, nil
}

func (m *Manager) buildNotification(absence *domain.Absence, employee *domain.Employee, report *staffing.Report) *domain.AdminNotification {
	severity := domain.GradeUnderstaffing(report.Required, report.Actual)

	// German first, English second, so the message survives either audience.
	message := fmt.Sprintf(
		"Schicht %s am %s ist unterbesetzt: %d von %d (Ausfall: %s). / Shift %s on %s is understaffed: %d of %d (absence: %s).",
		report.ShiftCode, report.Date.Format(domain.DateLayout), report.Actual, report.Required, employee.FullName(),
		report.ShiftCode, report.Date.Format(domain.DateLayout), report.Actual, report.Required, employee.FullName(),
	)

	return &domain.AdminNotification{
		Type:          domain.NotificationTypeUnderstaffing,
		Severity:      severity,
		Title:         fmt.Sprintf("Unterbesetzung Schicht %s", report.ShiftCode),
		Message:       message,
		ShiftDate:     report.Date,
		ShiftCode:     report.ShiftCode,
		TeamID:        employee.TeamID,
		EmployeeID:    &employee.ID,
		AbsenceID:     &absence.ID,
		RequiredStaff: report.Required,
		ActualStaff:   report.Actual,
	}
}

func (m *Manager) publishAlert(n *domain.AdminNotification) {
	if m.publisher == nil {
		return
	}

	msg := domain.MailMessage{
		Type: domain.NotificationTypeUnderstaffing,
		Data: domain.UnderstaffingMailData{
			Severity:  string(n.Severity),
			ShiftCode: n.ShiftCode,
			ShiftDate: n.ShiftDate.Format(domain.DateLayout),
			Required:  n.RequiredStaff,
			Actual:    n.ActualStaff,
			Message:   n.Message,
		},
	}
	if err := m.publisher.PublishMail(msg); err != nil {
		slog.Error("Unterbesetzungs-Alarm konnte nicht veröffentlicht werden", "error", err, "shiftCode", n.ShiftCode, "date", n.ShiftDate)
	}
}

func (m *Manager) Unread(limit int) ([]*domain.AdminNotification, error) {
	return m.store.GetUnreadNotifications(limit)
}

func (m *Manager) MarkRead(id int64, readBy int64) error {
	return m.store.MarkNotificationRead(id, readBy)
}

func (m *Manager) MarkAllRead(readBy int64) error {
	return m.store.MarkAllNotificationsRead(readBy)
}
