package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/service/campaign"
)

// CampaignRepo implements campaign.Repository against PostgreSQL.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func (r *CampaignRepo) Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, COALESCE(description,''), status, priority,
		       COALESCE(created_by,''), prompt_template, COALESCE(voice_id,''),
		       COALESCE(assistant_id,''), start_date, end_date,
		       max_calls, max_concurrent, total_calls, successful_calls, failed_calls,
		       created_at, updated_at, last_activity
		FROM campaigns
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Description, &c.Status, &c.Priority,
		&c.CreatedBy, &c.PromptTemplate, &c.VoiceID,
		&c.AssistantID, &c.StartDate, &c.EndDate,
		&c.MaxCalls, &c.MaxConcurrent, &c.TotalCalls, &c.SuccessfulCalls, &c.FailedCalls,
		&c.CreatedAt, &c.UpdatedAt, &c.LastActivity,
	)
	if err == sql.ErrNoRows {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) List(ctx context.Context, tenantID string, f campaign.ListFilter) ([]domain.Campaign, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	idx := 2
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM campaigns WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, tenant_id, name, COALESCE(description,''), status, priority,
		       COALESCE(created_by,''), prompt_template, COALESCE(voice_id,''),
		       COALESCE(assistant_id,''), start_date, end_date,
		       max_calls, max_concurrent, total_calls, successful_calls, failed_calls,
		       created_at, updated_at, last_activity
		FROM campaigns
		WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.Name, &c.Description, &c.Status, &c.Priority,
			&c.CreatedBy, &c.PromptTemplate, &c.VoiceID,
			&c.AssistantID, &c.StartDate, &c.EndDate,
			&c.MaxCalls, &c.MaxConcurrent, &c.TotalCalls, &c.SuccessfulCalls, &c.FailedCalls,
			&c.CreatedAt, &c.UpdatedAt, &c.LastActivity,
		); err != nil {
			return nil, 0, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns
			(id, tenant_id, name, description, status, priority, created_by,
			 prompt_template, voice_id, assistant_id, start_date, end_date,
			 max_calls, max_concurrent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`, c.ID, c.TenantID, c.Name, c.Description, c.Status, c.Priority, c.CreatedBy,
		c.PromptTemplate, c.VoiceID, c.AssistantID, c.StartDate, c.EndDate,
		c.MaxCalls, c.MaxConcurrent)
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	return c.ID, nil
}

func (r *CampaignRepo) Update(ctx context.Context, tenantID, id string, u campaign.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Priority != nil {
		add("priority", *u.Priority)
	}
	if u.PromptTemplate != nil {
		add("prompt_template", *u.PromptTemplate)
	}
	if u.VoiceID != nil {
		add("voice_id", *u.VoiceID)
	}
	if u.AssistantID != nil {
		add("assistant_id", *u.AssistantID)
	}
	if u.StartDate != nil {
		add("start_date", *u.StartDate)
	}
	if u.EndDate != nil {
		add("end_date", *u.EndDate)
	}
	if u.MaxCalls != nil {
		add("max_calls", *u.MaxCalls)
	}
	if u.MaxConcurrent != nil {
		add("max_concurrent", *u.MaxConcurrent)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE campaigns SET %s WHERE id = $%d AND tenant_id = $%d",
		strings.Join(sets, ", "), idx, idx+1)
	args = append(args, id, tenantID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM campaigns
		WHERE id = $1 AND tenant_id = $2 AND status IN ('draft','cancelled')
	`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET status = $1, updated_at = NOW(), last_activity = NOW()
		WHERE id = $2 AND tenant_id = $3
	`, status, id, tenantID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}
