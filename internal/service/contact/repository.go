package contact

import (
	"context"

	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/importer"
)

// Repository defines the data access contract for contacts.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single contact. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, tenantID, id string) (*domain.Contact, error)

	// List returns contacts matching the filter, ordered by created_at DESC.
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Contact, int, error)

	// Create inserts a new contact and returns its ID. Returns ErrDuplicate
	// when a per-tenant unique index on email, phone or external_id fires.
	Create(ctx context.Context, c *domain.Contact) (string, error)

	// Update modifies a contact. Only non-nil fields are applied.
	Update(ctx context.Context, tenantID, id string, u UpdateFields) error

	// Delete removes a contact.
	Delete(ctx context.Context, tenantID, id string) error

	// FindExisting returns any stored contact that shares a non-empty
	// identity signal (email case-insensitive, external_id exact, phone
	// canonical) with the key. Returns (nil, nil) when no contact matches.
	FindExisting(ctx context.Context, tenantID string, key importer.DuplicateKey) (*domain.Contact, error)
}

// ListFilter controls pagination and search for contact lists. Search
// matches first name, last name, email and external_id, case-insensitive.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// UpdateFields holds the mutable fields for a contact update.
// Nil fields are not applied.
type UpdateFields struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone_number"`
	ExternalID *string `json:"external_id"`
}
