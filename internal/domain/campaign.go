package domain

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// CampaignPriority orders campaigns in the outbound queue.
type CampaignPriority string

const (
	PriorityLow    CampaignPriority = "low"
	PriorityNormal CampaignPriority = "normal"
	PriorityHigh   CampaignPriority = "high"
	PriorityUrgent CampaignPriority = "urgent"
)

// Campaign represents an outbound AI-assistant campaign with its prompt
// configuration, scheduling window and quotas. Execution of the campaign
// (placing calls, sending messages) is handled by an external dispatcher.
type Campaign struct {
	ID          string           `json:"id" db:"id"`
	TenantID    string           `json:"tenant_id" db:"tenant_id"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	Status      CampaignStatus   `json:"status" db:"status"`
	Priority    CampaignPriority `json:"priority" db:"priority"`
	CreatedBy   string           `json:"created_by" db:"created_by"`

	// Assistant configuration
	PromptTemplate string `json:"prompt_template" db:"prompt_template"`
	VoiceID        string `json:"voice_id" db:"voice_id"`
	AssistantID    string `json:"assistant_id" db:"assistant_id"`

	// Scheduling window
	StartDate *time.Time `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`

	// Limits and quotas
	MaxCalls      int `json:"max_calls" db:"max_calls"`
	MaxConcurrent int `json:"max_concurrent" db:"max_concurrent"`

	// Stats (read-only, populated by the dispatcher)
	TotalCalls      int `json:"total_calls" db:"total_calls"`
	SuccessfulCalls int `json:"successful_calls" db:"successful_calls"`
	FailedCalls     int `json:"failed_calls" db:"failed_calls"`

	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastActivity *time.Time `json:"last_activity" db:"last_activity"`
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted || c.Status == CampaignCancelled
}

// IsActive returns true when the campaign is active and the current time
// falls inside its scheduling window.
func (c *Campaign) IsActive(now time.Time) bool {
	if c.Status != CampaignActive {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}
	return true
}

// SuccessRate returns the percentage of successful calls, 0 when none were
// placed yet.
func (c *Campaign) SuccessRate() float64 {
	if c.TotalCalls == 0 {
		return 0
	}
	return float64(c.SuccessfulCalls) / float64(c.TotalCalls) * 100
}
