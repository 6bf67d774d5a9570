package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbuBakr-03/watchtower/internal/auth"
	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/service/campaign"
)

// ListCampaigns returns a paginated campaign listing.
//
//	GET /api/campaigns?status=&search=&page=&limit=
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	p := ParsePagination(r, 20, 100)

	campaigns, total, err := h.campaigns.List(r.Context(), tenantID, campaign.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, NewPaginatedResponse(campaigns, p, total))
}

// GetCampaign returns one campaign.
//
//	GET /api/campaigns/{campaignID}
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	c, err := h.campaigns.Get(r.Context(), tenantID, chi.URLParam(r, "campaignID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// CreateCampaign creates a campaign in draft status.
//
//	POST /api/campaigns
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())

	var input campaign.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.CreatedBy = auth.UserID(r.Context())

	c, err := h.campaigns.Create(r.Context(), tenantID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// UpdateCampaign applies a partial update.
//
//	PUT /api/campaigns/{campaignID}
func (h *Handlers) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())

	var u campaign.UpdateFields
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "campaignID")
	if err := h.campaigns.Update(r.Context(), tenantID, id, u); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "updated"})
}

// DeleteCampaign removes a draft or cancelled campaign.
//
//	DELETE /api/campaigns/{campaignID}
func (h *Handlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	if err := h.campaigns.Delete(r.Context(), tenantID, chi.URLParam(r, "campaignID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionCampaign moves a campaign through its lifecycle.
//
//	POST /api/campaigns/{campaignID}/status
func (h *Handlers) TransitionCampaign(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())

	var req struct {
		Status domain.CampaignStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "campaignID")
	if err := h.campaigns.Transition(r.Context(), tenantID, id, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}
