package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbuBakr-03/watchtower/internal/auth"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
)

// ListContacts returns a paginated contact listing.
//
//	GET /api/contacts?search=&page=&limit=
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	p := ParsePagination(r, 20, 200)

	contacts, total, err := h.contacts.List(r.Context(), tenantID, contact.ListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, NewPaginatedResponse(contacts, p, total))
}

// GetContact returns one contact.
//
//	GET /api/contacts/{contactID}
func (h *Handlers) GetContact(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	c, err := h.contacts.Get(r.Context(), tenantID, chi.URLParam(r, "contactID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// CreateContact creates a single contact through the same validation
// and duplicate checks the importer applies.
//
//	POST /api/contacts
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())

	var input contact.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.CreatedBy = auth.UserID(r.Context())

	c, err := h.contacts.Create(r.Context(), tenantID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// UpdateContact applies a partial update.
//
//	PUT /api/contacts/{contactID}
func (h *Handlers) UpdateContact(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())

	var u contact.UpdateFields
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "contactID")
	if err := h.contacts.Update(r.Context(), tenantID, id, u); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "updated"})
}

// DeleteContact removes a contact.
//
//	DELETE /api/contacts/{contactID}
func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	if err := h.contacts.Delete(r.Context(), tenantID, chi.URLParam(r, "contactID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
