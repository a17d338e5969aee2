package httpx

import (
	"net/http"
	"strconv"

	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/service"
)

// UserHandlers serves the admin console endpoints.
type UserHandlers struct {
	Svc *service.UserService
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	users, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	session := GetSessionFromContext(r.Context())
	if err := h.Svc.Delete(r.Context(), session.UserID, id); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Notify handles POST /api/users/{id}/notify.
func (h *UserHandlers) Notify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.CreateNotificationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	n, err := h.Svc.Notify(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, n)
}

// pathID parses a numeric {id} path segment, writing the error response
// itself on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		WriteAppError(w, apperrors.Validation("invalid id"))
		return 0, false
	}
	return id, true
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
