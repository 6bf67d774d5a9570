package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AbuBakr-03/watchtower/internal/domain"
)

// validTransitions maps each status to the statuses it may move to.
// Completed and cancelled are terminal.
var validTransitions = map[domain.CampaignStatus][]domain.CampaignStatus{
	domain.CampaignDraft:  {domain.CampaignActive, domain.CampaignCancelled},
	domain.CampaignActive: {domain.CampaignPaused, domain.CampaignCompleted, domain.CampaignCancelled},
	domain.CampaignPaused: {domain.CampaignActive, domain.CampaignCompleted, domain.CampaignCancelled},
}

// Service implements campaign business logic.
type Service struct {
	repo Repository
}

// NewService creates a campaign service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// List returns campaigns matching the filter.
func (s *Service) List(ctx context.Context, tenantID string, f ListFilter) ([]domain.Campaign, int, error) {
	return s.repo.List(ctx, tenantID, f)
}

// CreateInput holds the fields for a new campaign.
type CreateInput struct {
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Priority       domain.CampaignPriority `json:"priority"`
	PromptTemplate string                  `json:"prompt_template"`
	VoiceID        string                  `json:"voice_id"`
	AssistantID    string                  `json:"assistant_id"`
	StartDate      *time.Time              `json:"start_date"`
	EndDate        *time.Time              `json:"end_date"`
	MaxCalls       int                     `json:"max_calls"`
	MaxConcurrent  int                     `json:"max_concurrent"`
	CreatedBy      string                  `json:"-"`
}

// Create validates and persists a new campaign in draft status.
func (s *Service) Create(ctx context.Context, tenantID string, input CreateInput) (*domain.Campaign, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if input.PromptTemplate == "" {
		return nil, fmt.Errorf("%w: prompt_template", ErrMissingField)
	}
	if input.StartDate != nil && input.EndDate != nil && !input.EndDate.After(*input.StartDate) {
		return nil, ErrInvalidWindow
	}

	c := &domain.Campaign{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		Name:           input.Name,
		Description:    input.Description,
		Status:         domain.CampaignDraft,
		Priority:       input.Priority,
		CreatedBy:      input.CreatedBy,
		PromptTemplate: input.PromptTemplate,
		VoiceID:        input.VoiceID,
		AssistantID:    input.AssistantID,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		MaxCalls:       input.MaxCalls,
		MaxConcurrent:  input.MaxConcurrent,
	}
	if c.Priority == "" {
		c.Priority = domain.PriorityNormal
	}
	if c.MaxCalls == 0 {
		c.MaxCalls = 1000
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 10
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Update modifies mutable campaign fields.
func (s *Service) Update(ctx context.Context, tenantID, id string, u UpdateFields) error {
	if u.StartDate != nil && u.EndDate != nil && !u.EndDate.After(*u.StartDate) {
		return ErrInvalidWindow
	}
	return s.repo.Update(ctx, tenantID, id, u)
}

// Delete removes a campaign (only draft/cancelled, enforced by the
// repository).
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// Transition moves a campaign through its lifecycle, rejecting moves the
// state machine does not allow.
func (s *Service) Transition(ctx context.Context, tenantID, id string, to domain.CampaignStatus) error {
	c, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range validTransitions[c.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}

	return s.repo.UpdateStatus(ctx, tenantID, id, to)
}
