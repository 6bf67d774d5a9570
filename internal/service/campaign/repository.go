package campaign

import (
	"context"
	"time"

	"github.com/AbuBakr-03/watchtower/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error)

	// List returns campaigns matching the filter, ordered by created_at DESC.
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Campaign, int, error)

	// Create inserts a new campaign and returns its ID.
	Create(ctx context.Context, c *domain.Campaign) (string, error)

	// Update modifies a campaign. Only non-nil fields are applied.
	Update(ctx context.Context, tenantID, id string, u UpdateFields) error

	// Delete removes a campaign. Only draft/cancelled campaigns can be deleted.
	Delete(ctx context.Context, tenantID, id string) error

	// UpdateStatus transitions a campaign's status.
	UpdateStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) error
}

// ListFilter controls pagination and filtering for campaign lists.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// UpdateFields holds the mutable fields for a campaign update.
// Nil fields are not applied.
type UpdateFields struct {
	Name           *string                  `json:"name"`
	Description    *string                  `json:"description"`
	Priority       *domain.CampaignPriority `json:"priority"`
	PromptTemplate *string                  `json:"prompt_template"`
	VoiceID        *string                  `json:"voice_id"`
	AssistantID    *string                  `json:"assistant_id"`
	StartDate      *time.Time               `json:"start_date"`
	EndDate        *time.Time               `json:"end_date"`
	MaxCalls       *int                     `json:"max_calls"`
	MaxConcurrent  *int                     `json:"max_concurrent"`
}
