package httpx

import (
	"net/http"

	"github.com/smartpdf/ui-api/internal/domain/model"
	"github.com/smartpdf/ui-api/internal/service"
)

// TemplateHandlers serves the chat-driven template builder endpoints.
type TemplateHandlers struct {
	Svc *service.TemplateService
}

// Generate handles POST /api/generate-template. The result is not
// persisted; the client saves it explicitly.
func (h *TemplateHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateTemplateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tpl, err := h.Svc.Generate(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tpl)
}

// Save handles POST /api/save-template.
func (h *TemplateHandlers) Save(w http.ResponseWriter, r *http.Request) {
	var req model.SaveTemplateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session := GetSessionFromContext(r.Context())
	tpl, err := h.Svc.Save(r.Context(), session.UserID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, tpl)
}

// List handles GET /api/get-template.
func (h *TemplateHandlers) List(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	templates, err := h.Svc.List(r.Context(), session.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

// Get handles GET /api/get-template/{id}.
func (h *TemplateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	session := GetSessionFromContext(r.Context())
	tpl, err := h.Svc.Get(r.Context(), id, session.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tpl)
}
