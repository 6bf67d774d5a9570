package campaign_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/service/campaign"
)

// memRepo is an in-memory campaign repository for unit testing.
type memRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign // keyed by id
}

func newMemRepo() *memRepo {
	return &memRepo{campaigns: make(map[string]*domain.Campaign)}
}

func (m *memRepo) Get(_ context.Context, tenantID, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return nil, campaign.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, tenantID string, f campaign.ListFilter) ([]domain.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Campaign
	for _, c := range m.campaigns {
		if c.TenantID != tenantID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memRepo) Create(_ context.Context, c *domain.Campaign) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.campaigns[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) Update(_ context.Context, tenantID, id string, u campaign.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return campaign.ErrNotFound
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.MaxCalls != nil {
		c.MaxCalls = *u.MaxCalls
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return campaign.ErrNotFound
	}
	if c.Status != domain.CampaignDraft && c.Status != domain.CampaignCancelled {
		return campaign.ErrInvalidTransition
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memRepo) UpdateStatus(_ context.Context, tenantID, id string, status domain.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return campaign.ErrNotFound
	}
	c.Status = status
	return nil
}

func TestCreateDefaults(t *testing.T) {
	svc := campaign.NewService(newMemRepo())

	c, err := svc.Create(context.Background(), "zain_bh", campaign.CreateInput{
		Name:           "Renewal reminders",
		PromptTemplate: "You are a friendly renewal assistant.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Status != domain.CampaignDraft {
		t.Errorf("Status = %q, want draft", c.Status)
	}
	if c.Priority != domain.PriorityNormal || c.MaxCalls != 1000 || c.MaxConcurrent != 10 {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := campaign.NewService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "zain_bh", campaign.CreateInput{PromptTemplate: "p"}); err == nil {
		t.Error("missing name accepted")
	}
	if _, err := svc.Create(ctx, "zain_bh", campaign.CreateInput{Name: "n"}); err == nil {
		t.Error("missing prompt template accepted")
	}

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.Create(ctx, "zain_bh", campaign.CreateInput{
		Name: "n", PromptTemplate: "p", StartDate: &start, EndDate: &end,
	})
	if !errors.Is(err, campaign.ErrInvalidWindow) {
		t.Errorf("inverted window: error = %v, want ErrInvalidWindow", err)
	}
}

func TestTransitions(t *testing.T) {
	svc := campaign.NewService(newMemRepo())
	ctx := context.Background()

	c, err := svc.Create(ctx, "zain_bh", campaign.CreateInput{Name: "n", PromptTemplate: "p"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// draft -> active -> paused -> active -> completed
	steps := []domain.CampaignStatus{
		domain.CampaignActive, domain.CampaignPaused, domain.CampaignActive, domain.CampaignCompleted,
	}
	for _, to := range steps {
		if err := svc.Transition(ctx, "zain_bh", c.ID, to); err != nil {
			t.Fatalf("Transition to %s: %v", to, err)
		}
	}

	// completed is terminal
	err = svc.Transition(ctx, "zain_bh", c.ID, domain.CampaignActive)
	if !errors.Is(err, campaign.ErrInvalidTransition) {
		t.Errorf("terminal transition: error = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionDraftCannotComplete(t *testing.T) {
	svc := campaign.NewService(newMemRepo())
	ctx := context.Background()

	c, _ := svc.Create(ctx, "zain_bh", campaign.CreateInput{Name: "n", PromptTemplate: "p"})
	err := svc.Transition(ctx, "zain_bh", c.ID, domain.CampaignCompleted)
	if !errors.Is(err, campaign.ErrInvalidTransition) {
		t.Errorf("draft -> completed: error = %v, want ErrInvalidTransition", err)
	}
}

func TestCampaignIsActiveWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	c := &domain.Campaign{Status: domain.CampaignActive, StartDate: &past, EndDate: &future}
	if !c.IsActive(now) {
		t.Error("campaign inside window reported inactive")
	}

	c.StartDate = &future
	if c.IsActive(now) {
		t.Error("campaign before window reported active")
	}

	c.StartDate = nil
	c.EndDate = &past
	if c.IsActive(now) {
		t.Error("campaign after window reported active")
	}

	c = &domain.Campaign{Status: domain.CampaignPaused}
	if c.IsActive(now) {
		t.Error("paused campaign reported active")
	}
}
