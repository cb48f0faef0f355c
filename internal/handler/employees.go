package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/utils"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Mitarbeiterliste geladen", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)
	h.successResponse(w, r, "Mitarbeiter geladen", employee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName    string   `json:"firstName" validate:"required"`
		LastName     string   `json:"lastName" validate:"required"`
		Email        string   `json:"email" validate:"required,email"`
		Role         string   `json:"role" validate:"required,oneof=admin planer mitarbeiter"`
		TeamID       *int64   `json:"teamID"`
		WeeklyHours  float64  `json:"weeklyHours" validate:"required,gt=0"`
		Capabilities []string `json:"capabilities" validate:"dive,oneof=springer ferienjobber bmt bsb teamleiter"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewEmployee.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	capabilities := make(domain.CapabilitySet, 0, len(req.Capabilities))
	for _, c := range req.Capabilities {
		capabilities = append(capabilities, domain.Capability(c))
	}

	employee := &domain.Employee{
		Username:     utils.UsernameFromName(req.FirstName, req.LastName),
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		TeamID:       req.TeamID,
		WeeklyHours:  req.WeeklyHours,
		Capabilities: capabilities,
		IsActive:     true,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_username_key":
				h.badRequest(w, r, errors.New("Benutzername existiert bereits"))
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("E-Mail-Adresse existiert bereits"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	mailMessage := domain.MailMessage{
		Type: "create_employee",
		To:   employee.Email,
		Data: domain.CreateEmployeeMailData{
			FullName: employee.FullName(),
			Username: employee.Username,
			Password: password,
		},
	}

	if err := h.publisher.PublishMail(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Mitarbeiter angelegt", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName    *string   `json:"firstName"`
		LastName     *string   `json:"lastName"`
		Email        *string   `json:"email" validate:"omitempty,email"`
		Role         *string   `json:"role" validate:"omitempty,oneof=admin planer mitarbeiter"`
		TeamID       *int64    `json:"teamID"`
		WeeklyHours  *float64  `json:"weeklyHours" validate:"omitempty,gt=0"`
		Capabilities *[]string `json:"capabilities" validate:"omitempty,dive,oneof=springer ferienjobber bmt bsb teamleiter"`
		IsActive     *bool     `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Role != nil {
		employee.Role = domain.Role(*req.Role)
	}
	if req.TeamID != nil {
		employee.TeamID = req.TeamID
	}
	if req.WeeklyHours != nil {
		employee.WeeklyHours = *req.WeeklyHours
	}
	if req.Capabilities != nil {
		capabilities := make(domain.CapabilitySet, 0, len(*req.Capabilities))
		for _, c := range *req.Capabilities {
			capabilities = append(capabilities, domain.Capability(c))
		}
		employee.Capabilities = capabilities
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_email_key":
				h.badRequest(w, r, errors.New("E-Mail-Adresse existiert bereits"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Aktualisierung fehlgeschlagen, bitte erneut versuchen")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Mitarbeiter aktualisiert", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Mitarbeiter gelöscht", nil)
}
