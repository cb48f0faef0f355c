package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultNotificationLimit = 100

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	limit := defaultNotificationLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed <= 0 {
			h.errorResponse(w, r, "ungültiges Limit")
			return
		}
		limit = parsed
	}

	var (
		notifications any
		err           error
	)
	if r.URL.Query().Get("unread") == "true" {
		notifications, err = h.notifications.Unread(limit)
	} else {
		notifications, err = h.repository.GetAllNotifications(limit)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Benachrichtigungen geladen", notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "ungültige Benachrichtigungs-ID")
		return
	}

	readBy, err := h.currentEmployeeID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.notifications.MarkRead(id, readBy); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Benachrichtigung als gelesen markiert", nil)
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	readBy, err := h.currentEmployeeID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.notifications.MarkAllRead(readBy); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "alle Benachrichtigungen als gelesen markiert", nil)
}
