package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/dayhire/pkg/repository"
)

type NotificationsHandler struct {
	notifications repository.NotificationRepo
}

func NewNotificationsHandler(nr repository.NotificationRepo) *NotificationsHandler {
	return &NotificationsHandler{notifications: nr}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notifs, err := h.notifications.GetByUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifs)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := IdentityFromContext(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	notifID := mux.Vars(r)["id"]

	if err := h.notifications.MarkAsRead(r.Context(), notifID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "read"})
}

// MarkAllRead is best-effort: a partial failure reports which notifications
// stayed unread while the rest are already flipped.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), id.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "all read"})
}
