package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbuBakr-03/watchtower/internal/auth"
	"github.com/AbuBakr-03/watchtower/internal/draft"
)

// GetDraft returns the stored draft payload verbatim.
//
//	GET /api/drafts/{draftKey}
func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	data, err := h.drafts.Load(r.Context(), tenantID, chi.URLParam(r, "draftKey"))
	if errors.Is(err, draft.ErrNotFound) {
		respondError(w, http.StatusNotFound, "draft not found")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SaveDraft stores the request body as an opaque draft payload. The
// body must be valid JSON so GetDraft can serve it back as such.
//
//	PUT /api/drafts/{draftKey}
func (h *Handlers) SaveDraft(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "draft payload must be JSON")
		return
	}

	if err := h.drafts.Save(r.Context(), tenantID, chi.URLParam(r, "draftKey"), body); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DeleteDraft clears a draft, typically after the form was submitted.
//
//	DELETE /api/drafts/{draftKey}
func (h *Handlers) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	if err := h.drafts.Clear(r.Context(), tenantID, chi.URLParam(r, "draftKey")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
