// Package api exposes the dashboard's HTTP surface: contact CRUD, CSV
// imports (sync and async), campaign lifecycle, and draft persistence.
package api

import (
	"github.com/AbuBakr-03/watchtower/internal/draft"
	"github.com/AbuBakr-03/watchtower/internal/service/campaign"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
	"github.com/AbuBakr-03/watchtower/internal/storage"
	"github.com/AbuBakr-03/watchtower/internal/worker"
)

// defaultMaxUploadBytes caps import bodies when no limit is configured.
const defaultMaxUploadBytes = 10 << 20

// Handlers bundles the services behind the HTTP routes.
type Handlers struct {
	contacts       *contact.Service
	campaigns      *campaign.Service
	jobs           *worker.ImportJobService
	drafts         *draft.Store
	archiver       *storage.Archiver // nil when archival is disabled
	health         *HealthChecker
	maxUploadBytes int64
}

// NewHandlers wires the services into the handler set. archiver may be
// nil when S3 archival is disabled.
func NewHandlers(
	contacts *contact.Service,
	campaigns *campaign.Service,
	jobs *worker.ImportJobService,
	drafts *draft.Store,
	archiver *storage.Archiver,
	health *HealthChecker,
	maxUploadBytes int64,
) *Handlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handlers{
		contacts:       contacts,
		campaigns:      campaigns,
		jobs:           jobs,
		drafts:         drafts,
		archiver:       archiver,
		health:         health,
		maxUploadBytes: maxUploadBytes,
	}
}
