package httpx

import (
	"net/http"

	"github.com/smartpdf/ui-api/internal/service"
)

// NotificationHandlers serves a user's own notices.
type NotificationHandlers struct {
	Svc *service.NotificationService
}

// List handles GET /api/notifications.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	notifications, err := h.Svc.ListForUser(r.Context(), session.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// Delete handles DELETE /api/notifications/{id}.
func (h *NotificationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	session := GetSessionFromContext(r.Context())
	if err := h.Svc.Delete(r.Context(), id, session.UserID); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
