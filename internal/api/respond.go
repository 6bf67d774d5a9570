package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AbuBakr-03/watchtower/internal/importer"
	"github.com/AbuBakr-03/watchtower/internal/service/campaign"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError translates domain errors into HTTP statuses. File
// level import errors surface as 400s with the reason so the dashboard
// can show the user what to fix.
func respondServiceError(w http.ResponseWriter, err error) {
	var parseErr *importer.ParseError
	var schemaErr *importer.SchemaError

	switch {
	case errors.Is(err, contact.ErrNotFound), errors.Is(err, campaign.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, contact.ErrDuplicate):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, campaign.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &parseErr), errors.As(err, &schemaErr),
		errors.Is(err, contact.ErrPhoneInvalid), errors.Is(err, contact.ErrNameRequired),
		errors.Is(err, campaign.ErrInvalidWindow), errors.Is(err, campaign.ErrMissingField):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[API] internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
