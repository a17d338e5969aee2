package httpx

import (
	"net/http"

	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/service"
)

// ExportHandlers serves the document conversion endpoints.
type ExportHandlers struct {
	Svc *service.ExportService
}

type exportRequest struct {
	TemplateID int64  `json:"template_id"`
	Format     string `json:"format"`
}

// Start handles POST /api/export. It returns as soon as the conversion
// job exists; the client polls the status endpoint.
func (h *ExportHandlers) Start(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.TemplateID <= 0 {
		WriteAppError(w, apperrors.Validation("template_id is required"))
		return
	}
	format, ok := model.ParseExportFormat(req.Format)
	if !ok {
		WriteAppError(w, apperrors.Validationf("unsupported format %q", req.Format))
		return
	}

	session := GetSessionFromContext(r.Context())
	job, err := h.Svc.Start(r.Context(), session.UserID, req.TemplateID, format)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, job)
}

// Status handles GET /api/export/{id}.
func (h *ExportHandlers) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	session := GetSessionFromContext(r.Context())

	job, err := h.Svc.Status(jobID, session.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Cancel handles DELETE /api/export/{id}.
func (h *ExportHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	session := GetSessionFromContext(r.Context())

	if err := h.Svc.Cancel(jobID, session.UserID); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
