package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/planning"
)

func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start string `json:"start" validate:"required,datetime=2006-01-02"`
		End   string `json:"end" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, _ := time.Parse(domain.DateLayout, req.Start)
	end, _ := time.Parse(domain.DateLayout, req.End)

	timeLimit := time.Duration(h.config.Planner.TimeLimit) * time.Second

	result, err := h.planning.Plan(start, end, timeLimit)
	if err != nil {
		var validationErr *planning.ValidationError
		var infeasibleErr *planning.InfeasibleError
		var timeoutErr *planning.TimeoutError
		switch {
		case errors.As(err, &validationErr):
			h.badRequest(w, r, errors.New(validationErr.Reason))
		case errors.As(err, &infeasibleErr):
			// diagnostics tell the planner which shifts cannot be staffed
			h.writeJSON(w, r, http.StatusOK, Response{
				Success: false,
				Message: "kein gültiger Plan möglich",
				Data:    infeasibleErr.Diagnostics,
			})
		case errors.As(err, &timeoutErr):
			h.errorResponse(w, r, "Zeitlimit erreicht, bitte mit höherem Limit erneut versuchen")
		case errors.Is(err, planning.ErrAssignmentConflict):
			h.errorResponse(w, r, "Konflikt mit einer parallelen Änderung, bitte erneut versuchen")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Plan erstellt", result)
}

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignments, err := h.repository.GetAssignmentsInRange(start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Schichtzuweisungen geladen", assignments)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  int64  `json:"employeeID" validate:"required"`
		ShiftTypeID int64  `json:"shiftTypeID" validate:"required"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		IsFixed     bool   `json:"isFixed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, _ := time.Parse(domain.DateLayout, req.Date)

	assignment := &domain.ShiftAssignment{
		EmployeeID:  req.EmployeeID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		IsManual:    true,
		IsFixed:     req.IsFixed,
	}

	if err := h.repository.CreateAssignment(assignment); err != nil {
		if errors.Is(planning.MapPersistenceError(err), planning.ErrAssignmentConflict) {
			h.errorResponse(w, r, "Mitarbeiter ist an diesem Tag bereits für diese Schicht eingeteilt")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Schichtzuweisung angelegt", assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Zuweisungs-ID")
		return
	}

	if err := h.repository.DeleteAssignment(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Schichtzuweisung gelöscht", nil)
}

func (h *Handler) SetAssignmentFixed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Zuweisungs-ID")
		return
	}

	var req struct {
		IsFixed *bool `json:"isFixed" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SetAssignmentFixed(id, *req.IsFixed); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Fixierung aktualisiert", nil)
}

func (h *Handler) CheckStaffing(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	shiftCode := r.URL.Query().Get("shift")

	if dateParam == "" || shiftCode == "" {
		h.badRequest(w, r, errors.New("Parameter date und shift sind erforderlich"))
		return
	}

	date, err := time.Parse(domain.DateLayout, dateParam)
	if err != nil {
		h.badRequest(w, r, errors.New("ungültiges Datum, erwartet JJJJ-MM-TT"))
		return
	}

	report, err := h.planning.CheckStaffing(date, shiftCode)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Besetzung geprüft", report)
}
