package contact

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/importer"
)

// Service implements contact business logic. All public methods are safe
// for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo      Repository
	importCfg importer.Config
}

// NewService creates a contact service. importCfg supplies the phone
// policy, alias table, delimiter and default tenant used by Import.
func NewService(repo Repository, importCfg importer.Config) *Service {
	return &Service{repo: repo, importCfg: importCfg}
}

// Get returns a single contact.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*domain.Contact, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// List returns contacts matching the filter.
func (s *Service) List(ctx context.Context, tenantID string, f ListFilter) ([]domain.Contact, int, error) {
	return s.repo.List(ctx, tenantID, f)
}

// CreateInput holds the fields for a single contact creation.
type CreateInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone_number"`
	ExternalID string `json:"external_id"`
	CreatedBy  string `json:"-"`
}

// Create validates one contact, re-checks the durable store for identity
// collisions, and persists it. The phone is stored in canonical form so
// the per-tenant unique index sees a single shape.
func (s *Service) Create(ctx context.Context, tenantID string, input CreateInput) (*domain.Contact, error) {
	if input.FirstName == "" && input.LastName == "" {
		return nil, ErrNameRequired
	}

	canonical := importer.CanonicalPhone(input.Phone, s.importCfg.Phone)
	if !importer.ValidPhone(canonical, s.importCfg.Phone) {
		return nil, fmt.Errorf("%w: %q (canonicalized to %q)", ErrPhoneInvalid, input.Phone, canonical)
	}

	candidate := importer.Candidate{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		ExternalID: input.ExternalID,
		TenantID:   tenantID,
	}
	key := importer.KeyFor(candidate, s.importCfg.Phone)

	existing, err := s.repo.FindExisting(ctx, tenantID, key)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		reason, _ := importer.Match(key, s.keyForContact(existing))
		return nil, fmt.Errorf("%w: matched on %s (%s)", ErrDuplicate, reason, existing.DisplayName())
	}

	c := &domain.Contact{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		ExternalID: input.ExternalID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      canonical,
		CreatedBy:  input.CreatedBy,
	}
	if _, err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update modifies mutable contact fields.
func (s *Service) Update(ctx context.Context, tenantID, id string, u UpdateFields) error {
	if u.Phone != nil {
		canonical := importer.CanonicalPhone(*u.Phone, s.importCfg.Phone)
		if !importer.ValidPhone(canonical, s.importCfg.Phone) {
			return fmt.Errorf("%w: %q (canonicalized to %q)", ErrPhoneInvalid, *u.Phone, canonical)
		}
		u.Phone = &canonical
	}
	return s.repo.Update(ctx, tenantID, id, u)
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// Import runs the full pipeline over a decoded CSV payload and persists the
// survivors. Candidates the in-batch pass accepted may still collide with
// durable records; those move to the duplicate bucket with the same reason
// vocabulary, so the caller sees one consistent report. File-level errors
// (importer.ParseError, importer.SchemaError) abort with no partial result.
func (s *Service) Import(ctx context.Context, tenantID, createdBy, payload string) (*importer.BatchResult, error) {
	cfg := s.importCfg
	if tenantID != "" {
		cfg.DefaultTenantID = tenantID
	}

	batch, err := importer.Run(payload, cfg)
	if err != nil {
		return nil, err
	}

	final := &importer.BatchResult{
		Accepted:   []importer.Candidate{},
		Duplicates: batch.Duplicates,
		Invalid:    batch.Invalid,
	}

	for _, cand := range batch.Accepted {
		reason, conflict, err := s.persistCandidate(ctx, cand, createdBy)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", cand.Row, err)
		}
		if conflict {
			final.Duplicates = append(final.Duplicates, importer.DuplicateRecord{Contact: cand, Reason: reason})
			continue
		}
		final.Accepted = append(final.Accepted, cand)
	}

	final.Summary = importer.Summary{
		AcceptedCount:  len(final.Accepted),
		DuplicateCount: len(final.Duplicates),
		InvalidCount:   len(final.Invalid),
	}
	log.Printf("[Contacts] import for tenant %s: %d accepted, %d duplicate, %d invalid",
		cfg.DefaultTenantID, final.Summary.AcceptedCount, final.Summary.DuplicateCount, final.Summary.InvalidCount)
	return final, nil
}

// persistCandidate inserts one batch-accepted candidate, reporting a
// store-side duplicate instead of an error when an identity signal is
// already taken.
func (s *Service) persistCandidate(ctx context.Context, cand importer.Candidate, createdBy string) (importer.Reason, bool, error) {
	key := importer.KeyFor(cand, s.importCfg.Phone)

	existing, err := s.repo.FindExisting(ctx, cand.TenantID, key)
	if err != nil {
		return "", false, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		reason, _ := importer.Match(key, s.keyForContact(existing))
		return reason, true, nil
	}

	c := &domain.Contact{
		ID:         uuid.New().String(),
		TenantID:   cand.TenantID,
		ExternalID: key.ExternalID,
		FirstName:  cand.FirstName,
		LastName:   cand.LastName,
		Email:      cand.Email,
		Phone:      key.Phone,
		CreatedBy:  createdBy,
	}
	if _, err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost a race with a concurrent insert; resolve the reason
			// with the same match the pre-check uses.
			if existing, ferr := s.repo.FindExisting(ctx, cand.TenantID, key); ferr == nil && existing != nil {
				reason, _ := importer.Match(key, s.keyForContact(existing))
				return reason, true, nil
			}
			return importer.ReasonPhone, true, nil
		}
		return "", false, err
	}
	return "", false, nil
}

// keyForContact derives the duplicate key of a stored contact. Stored
// phones are already canonical; running them through KeyFor again is a
// no-op, which keeps both layers on one rule.
func (s *Service) keyForContact(c *domain.Contact) importer.DuplicateKey {
	return importer.KeyFor(importer.Candidate{
		Email:      c.Email,
		ExternalID: c.ExternalID,
		Phone:      c.Phone,
	}, s.importCfg.Phone)
}
