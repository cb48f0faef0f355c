package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

func (h *Handler) GetAbsences(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	absences, err := h.repository.GetAbsencesOverlapping(start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Abwesenheiten geladen", absences)
}

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID int64  `json:"employeeID" validate:"required"`
		Type       string `json:"type" validate:"required,oneof=krank urlaub lehrgang"`
		StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
		Note       string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, _ := time.Parse(domain.DateLayout, req.StartDate)
	endDate, _ := time.Parse(domain.DateLayout, req.EndDate)
	if endDate.Before(startDate) {
		h.badRequest(w, r, errors.New("Enddatum liegt vor dem Startdatum"))
		return
	}

	if _, err := h.repository.GetEmployeeByID(req.EmployeeID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Mitarbeiter nicht gefunden")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	absence := &domain.Absence{
		EmployeeID: req.EmployeeID,
		Type:       domain.AbsenceType(req.Type),
		StartDate:  startDate,
		EndDate:    endDate,
		Note:       req.Note,
	}

	if err := h.repository.CreateAbsence(absence); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// reactive pipeline: understaffing alerts, then Springer replacement
	sideEffects, err := h.planning.ProcessAbsenceSideEffects(absence)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Abwesenheit erfasst", struct {
		Absence     *domain.Absence `json:"absence"`
		SideEffects any             `json:"sideEffects"`
	}{
		Absence:     absence,
		SideEffects: sideEffects,
	})
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Abwesenheits-ID")
		return
	}

	if err := h.repository.DeleteAbsence(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Abwesenheit gelöscht", nil)
}

// parseDateRange reads the start/end query parameters; absent parameters
// default to the current month.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := domain.NormalizeDate(time.Now())
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("ungültiges Startdatum, erwartet JJJJ-MM-TT")
		}
		start = parsed
	}
	if s := r.URL.Query().Get("end"); s != "" {
		parsed, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("ungültiges Enddatum, erwartet JJJJ-MM-TT")
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("Enddatum liegt vor dem Startdatum")
	}

	return start, end, nil
}
