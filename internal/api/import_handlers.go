package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AbuBakr-03/watchtower/internal/auth"
	"github.com/AbuBakr-03/watchtower/internal/worker"
)

// importRequest carries an upload when the client sends JSON instead of
// a raw text/csv body.
type importRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// readImportPayload accepts either a raw text/csv body or a JSON
// envelope with filename and content. The body is capped at the
// configured upload limit; overruns surface as *http.MaxBytesError.
func (h *Handlers) readImportPayload(w http.ResponseWriter, r *http.Request) (filename, payload string, err error) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "text/csv") || strings.HasPrefix(ct, "text/plain") {
		data, rerr := io.ReadAll(body)
		if rerr != nil {
			return "", "", rerr
		}
		return "upload.csv", string(data), nil
	}

	var req importRequest
	if derr := json.NewDecoder(body).Decode(&req); derr != nil {
		return "", "", derr
	}
	if req.Filename == "" {
		req.Filename = "upload.csv"
	}
	return req.Filename, req.Content, nil
}

// respondUploadError distinguishes an oversized body from a malformed
// one.
func respondUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds the %d byte limit", tooLarge.Limit))
		return
	}
	respondError(w, http.StatusBadRequest, "unreadable upload")
}

// ImportContacts runs a CSV import synchronously and returns the full
// batch result: accepted, duplicates with reasons, and invalid rows.
//
//	POST /api/contacts/import
func (h *Handlers) ImportContacts(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	if !importAllowed(r) {
		respondError(w, http.StatusForbidden, "imports are disabled for this tenant")
		return
	}

	filename, payload, err := h.readImportPayload(w, r)
	if err != nil {
		respondUploadError(w, err)
		return
	}

	result, err := h.contacts.Import(r.Context(), tenantID, auth.UserID(r.Context()), payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.archive(r, tenantID, "sync", filename, payload)
	respondJSON(w, http.StatusOK, result)
}

// StartImportJob queues an asynchronous import and returns its job ID.
//
//	POST /api/contacts/import/jobs
func (h *Handlers) StartImportJob(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	if !importAllowed(r) {
		respondError(w, http.StatusForbidden, "imports are disabled for this tenant")
		return
	}

	filename, payload, err := h.readImportPayload(w, r)
	if err != nil {
		respondUploadError(w, err)
		return
	}

	jobID, err := h.jobs.Start(r.Context(), tenantID, auth.UserID(r.Context()), filename, payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.archive(r, tenantID, jobID, filename, payload)
	respondJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// GetImportJob returns the state and counters of an import job.
//
//	GET /api/contacts/import/jobs/{jobID}
func (h *Handlers) GetImportJob(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	job, err := h.jobs.Job(r.Context(), tenantID, chi.URLParam(r, "jobID"))
	if errors.Is(err, worker.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// GetImportJobResult returns the full batch result of a completed job.
//
//	GET /api/contacts/import/jobs/{jobID}/result
func (h *Handlers) GetImportJobResult(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantID(r.Context())
	result, err := h.jobs.Result(r.Context(), tenantID, chi.URLParam(r, "jobID"))
	if errors.Is(err, worker.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "result not available")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// importAllowed checks the tenant's import flag. Requests that bypass
// the tenant middleware carry no flags and are allowed through.
func importAllowed(r *http.Request) bool {
	flags := auth.Flags(r.Context())
	return flags.ImportEnabled || flags == (auth.TenantFlags{})
}

// archive stores the raw upload when an archiver is configured. Failure
// to archive never fails the import.
func (h *Handlers) archive(r *http.Request, tenantID, jobID, filename, payload string) {
	if h.archiver == nil {
		return
	}
	if _, err := h.archiver.ArchiveImport(r.Context(), tenantID, jobID, filename, payload); err != nil {
		log.Printf("[API] archive upload: %v", err)
	}
}
