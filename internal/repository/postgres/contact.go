package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/importer"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
)

// uniqueViolation is the Postgres error code raised when a partial unique
// index on (tenant_id, email|phone|external_id) fires.
const uniqueViolation = "23505"

// ContactRepo implements contact.Repository against PostgreSQL.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Get(ctx context.Context, tenantID, id string) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, COALESCE(external_id,''), first_name, last_name,
		       COALESCE(email,''), phone, COALESCE(created_by,''), created_at, updated_at
		FROM people_contacts
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.ExternalID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepo) List(ctx context.Context, tenantID string, f contact.ListFilter) ([]domain.Contact, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	if f.Search != "" {
		where += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR external_id ILIKE $2)`
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM people_contacts WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, tenant_id, COALESCE(external_id,''), first_name, last_name,
		       COALESCE(email,''), phone, COALESCE(created_by,''), created_at, updated_at
		FROM people_contacts
		WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.ExternalID, &c.FirstName, &c.LastName,
			&c.Email, &c.Phone, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO people_contacts
			(id, tenant_id, external_id, first_name, last_name, email, phone, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, c.ID, c.TenantID, c.ExternalID, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedBy)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return "", contact.ErrDuplicate
		}
		return "", fmt.Errorf("create contact: %w", err)
	}
	return c.ID, nil
}

func (r *ContactRepo) Update(ctx context.Context, tenantID, id string, u contact.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.FirstName != nil {
		add("first_name", *u.FirstName)
	}
	if u.LastName != nil {
		add("last_name", *u.LastName)
	}
	if u.Email != nil {
		add("email", *u.Email)
	}
	if u.Phone != nil {
		add("phone", *u.Phone)
	}
	if u.ExternalID != nil {
		add("external_id", *u.ExternalID)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE people_contacts SET %s WHERE id = $%d AND tenant_id = $%d",
		strings.Join(sets, ", "), idx, idx+1)
	args = append(args, id, tenantID)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return contact.ErrDuplicate
		}
		return fmt.Errorf("update contact: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM people_contacts WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

// FindExisting looks for any contact sharing a non-empty identity signal
// with the key. Clauses are built only for present signals so an empty
// email never matches the many stored contacts that also have no email.
func (r *ContactRepo) FindExisting(ctx context.Context, tenantID string, key importer.DuplicateKey) (*domain.Contact, error) {
	var clauses []string
	args := []interface{}{tenantID}
	idx := 2

	if key.Email != "" {
		clauses = append(clauses, fmt.Sprintf("(email <> '' AND LOWER(email) = $%d)", idx))
		args = append(args, key.Email)
		idx++
	}
	if key.ExternalID != "" {
		clauses = append(clauses, fmt.Sprintf("(external_id <> '' AND external_id = $%d)", idx))
		args = append(args, key.ExternalID)
		idx++
	}
	if key.Phone != "" {
		clauses = append(clauses, fmt.Sprintf("(phone <> '' AND phone = $%d)", idx))
		args = append(args, key.Phone)
		idx++
	}

	if len(clauses) == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(`
		SELECT id, tenant_id, COALESCE(external_id,''), first_name, last_name,
		       COALESCE(email,''), phone, COALESCE(created_by,''), created_at, updated_at
		FROM people_contacts
		WHERE tenant_id = $1 AND (%s)
		LIMIT 1`, strings.Join(clauses, " OR "))

	c := &domain.Contact{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&c.ID, &c.TenantID, &c.ExternalID, &c.FirstName, &c.LastName,
		&c.Email, &c.Phone, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find existing contact: %w", err)
	}
	return c, nil
}
