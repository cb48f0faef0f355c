package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
)

type shiftTypePayload struct {
	Code            string  `json:"code" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	StartTime       string  `json:"startTime" validate:"required,datetime=15:04:05"`
	EndTime         string  `json:"endTime" validate:"required,datetime=15:04:05"`
	DurationHours   float64 `json:"durationHours" validate:"required,gt=0"`
	WeeklyHours     float64 `json:"weeklyHours" validate:"required,gt=0"`
	ActiveWeekdays  [7]bool `json:"activeWeekdays"`
	MinStaffWeekday int32   `json:"minStaffWeekday" validate:"gte=0"`
	MaxStaffWeekday int32   `json:"maxStaffWeekday" validate:"gte=0"`
	MinStaffWeekend int32   `json:"minStaffWeekend" validate:"gte=0"`
	MaxStaffWeekend int32   `json:"maxStaffWeekend" validate:"gte=0"`
	IsNight         bool    `json:"isNight"`
}

func (p *shiftTypePayload) boundsValid() bool {
	return p.MinStaffWeekday <= p.MaxStaffWeekday && p.MinStaffWeekend <= p.MaxStaffWeekend
}

func (h *Handler) GetAllShiftTypes(w http.ResponseWriter, r *http.Request) {
	shiftTypes, err := h.repository.GetAllShiftTypes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Schichtarten geladen", shiftTypes)
}

func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var req shiftTypePayload

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !req.boundsValid() {
		h.badRequest(w, r, errors.New("Mindestbesetzung darf die Maximalbesetzung nicht überschreiten"))
		return
	}

	shiftType := &domain.ShiftType{
		Code:            req.Code,
		Name:            req.Name,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationHours:   req.DurationHours,
		WeeklyHours:     req.WeeklyHours,
		ActiveWeekdays:  req.ActiveWeekdays,
		MinStaffWeekday: req.MinStaffWeekday,
		MaxStaffWeekday: req.MaxStaffWeekday,
		MinStaffWeekend: req.MinStaffWeekend,
		MaxStaffWeekend: req.MaxStaffWeekend,
		IsNight:         req.IsNight,
	}

	if err := h.repository.CreateShiftType(shiftType); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_types_code_key":
			h.badRequest(w, r, errors.New("Schichtkürzel existiert bereits"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Schichtart angelegt", shiftType)
}

func (h *Handler) UpdateShiftType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Schichtart-ID")
		return
	}

	var req shiftTypePayload

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if !req.boundsValid() {
		h.badRequest(w, r, errors.New("Mindestbesetzung darf die Maximalbesetzung nicht überschreiten"))
		return
	}

	shiftType, err := h.repository.GetShiftTypeByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Schichtart nicht gefunden")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	shiftType.Code = req.Code
	shiftType.Name = req.Name
	shiftType.StartTime = req.StartTime
	shiftType.EndTime = req.EndTime
	shiftType.DurationHours = req.DurationHours
	shiftType.WeeklyHours = req.WeeklyHours
	shiftType.ActiveWeekdays = req.ActiveWeekdays
	shiftType.MinStaffWeekday = req.MinStaffWeekday
	shiftType.MaxStaffWeekday = req.MaxStaffWeekday
	shiftType.MinStaffWeekend = req.MinStaffWeekend
	shiftType.MaxStaffWeekend = req.MaxStaffWeekend
	shiftType.IsNight = req.IsNight

	if err := h.repository.UpdateShiftType(shiftType); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Aktualisierung fehlgeschlagen, bitte erneut versuchen")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Schichtart aktualisiert", shiftType)
}

func (h *Handler) DeleteShiftType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Schichtart-ID")
		return
	}

	if err := h.repository.DeleteShiftType(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Schichtart gelöscht", nil)
}

func (h *Handler) GetShiftTypeRelationships(w http.ResponseWriter, r *http.Request) {
	relationships, err := h.repository.GetAllShiftTypeRelationships()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Rotationsfolgen geladen", relationships)
}

func (h *Handler) CreateShiftTypeRelationship(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftTypeID   int64 `json:"shiftTypeID" validate:"required"`
		RelatedTypeID int64 `json:"relatedTypeID" validate:"required"`
		Priority      int32 `json:"priority" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.ShiftTypeID == req.RelatedTypeID {
		h.badRequest(w, r, errors.New("eine Schichtart kann nicht auf sich selbst folgen"))
		return
	}

	relationship := &domain.ShiftTypeRelationship{
		ShiftTypeID:   req.ShiftTypeID,
		RelatedTypeID: req.RelatedTypeID,
		Priority:      req.Priority,
	}

	if err := h.repository.CreateShiftTypeRelationship(relationship); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Rotationsfolge angelegt", relationship)
}

func (h *Handler) DeleteShiftTypeRelationship(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige ID")
		return
	}

	if err := h.repository.DeleteShiftTypeRelationship(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Rotationsfolge gelöscht", nil)
}
