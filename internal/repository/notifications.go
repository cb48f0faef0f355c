package repository

import (
	"time"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

func (r *Repository) CreateNotification(n *domain.AdminNotification) error {
	query := `
		INSERT INTO admin_notifications (
			type,
			severity,
			title,
			message,
			shift_date,
			shift_code,
			team_id,
			employee_id,
			absence_id,
			required_staff,
			actual_staff
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		n.Type,
		n.Severity,
		n.Title,
		n.Message,
		n.ShiftDate.Format(domain.DateLayout),
		n.ShiftCode,
		n.TeamID,
		n.EmployeeID,
		n.AbsenceID,
		n.RequiredStaff,
		n.ActualStaff,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&n.ID, &n.CreatedAt); err != nil {
		return err
	}

	return nil
}

const notificationColumns = `
	id, type, severity, title, message, shift_date, shift_code, team_id,
	employee_id, absence_id, required_staff, actual_staff, is_read, read_at, read_by, created_at
`

func (r *Repository) getNotifications(query string, args ...any) ([]*domain.AdminNotification, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.AdminNotification{}
	for rows.Next() {
		var n domain.AdminNotification
		dst := []any{
			&n.ID, &n.Type, &n.Severity, &n.Title, &n.Message, &n.ShiftDate, &n.ShiftCode,
			&n.TeamID, &n.EmployeeID, &n.AbsenceID, &n.RequiredStaff, &n.ActualStaff,
			&n.IsRead, &n.ReadAt, &n.ReadBy, &n.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *Repository) GetUnreadNotifications(limit int) ([]*domain.AdminNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM admin_notifications
		WHERE is_read = FALSE
		ORDER BY created_at DESC
		LIMIT $1
	`

	return r.getNotifications(query, limit)
}

func (r *Repository) GetAllNotifications(limit int) ([]*domain.AdminNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM admin_notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	return r.getNotifications(query, limit)
}

func (r *Repository) MarkNotificationRead(id int64, readBy int64) error {
	query := `
		UPDATE admin_notifications
		SET is_read = TRUE, read_at = $1, read_by = $2
		WHERE id = $3 AND is_read = FALSE
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, time.Now(), readBy, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) MarkAllNotificationsRead(readBy int64) error {
	query := `
		UPDATE admin_notifications
		SET is_read = TRUE, read_at = $1, read_by = $2
		WHERE is_read = FALSE
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, time.Now(), readBy); err != nil {
		return err
	}

	return nil
}
