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

func (h *Handler) GetAllTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repository.GetAllTeams()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Teamliste geladen", teams)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name" validate:"required"`
		IsVirtual    bool    `json:"isVirtual"`
		ShiftTypeIDs []int64 `json:"shiftTypeIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team := &domain.Team{
		Name:         req.Name,
		IsVirtual:    req.IsVirtual,
		ShiftTypeIDs: req.ShiftTypeIDs,
	}
	if team.ShiftTypeIDs == nil {
		team.ShiftTypeIDs = []int64{}
	}

	if err := h.repository.CreateTeam(team); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "teams_name_key":
			h.badRequest(w, r, errors.New("Teamname existiert bereits"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Team angelegt", team)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Team-ID")
		return
	}

	var req struct {
		Name         *string  `json:"name"`
		IsVirtual    *bool    `json:"isVirtual"`
		ShiftTypeIDs *[]int64 `json:"shiftTypeIDs"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team, err := h.repository.GetTeamByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Team nicht gefunden")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.IsVirtual != nil {
		team.IsVirtual = *req.IsVirtual
	}
	if req.ShiftTypeIDs != nil {
		team.ShiftTypeIDs = *req.ShiftTypeIDs
	}

	if err := h.repository.UpdateTeam(team); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Aktualisierung fehlgeschlagen, bitte erneut versuchen")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Team aktualisiert", team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Team-ID")
		return
	}

	if err := h.repository.DeleteTeam(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Team gelöscht", nil)
}
