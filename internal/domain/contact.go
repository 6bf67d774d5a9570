package domain

import (
	"strings"
	"time"
)

// Contact represents a single person in a tenant's address book. Email,
// phone and external ID are each unique per tenant when non-empty; the
// database enforces that with partial unique indexes.
type Contact struct {
	ID         string `json:"id" db:"id"`
	TenantID   string `json:"tenant_id" db:"tenant_id"`
	ExternalID string `json:"external_id" db:"external_id"` // CRM/HRIS/bank core reference
	FirstName  string `json:"first_name" db:"first_name"`
	LastName   string `json:"last_name" db:"last_name"`
	Email      string `json:"email" db:"email"`
	Phone      string `json:"phone_number" db:"phone"` // canonical form per the tenant's phone policy
	CreatedBy  string `json:"created_by" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the human-facing name, falling back to the external
// reference when both name parts are empty.
func (c *Contact) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name != "" {
		return name
	}
	return c.ExternalID
}
