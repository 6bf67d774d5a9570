package contact_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/AbuBakr-03/watchtower/internal/domain"
	"github.com/AbuBakr-03/watchtower/internal/importer"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
)

// memRepo is an in-memory contact repository for unit testing.
type memRepo struct {
	mu       sync.Mutex
	contacts map[string]*domain.Contact // keyed by id
}

func newMemRepo() *memRepo {
	return &memRepo{contacts: make(map[string]*domain.Contact)}
}

func (m *memRepo) Get(_ context.Context, tenantID, id string) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.TenantID != tenantID {
		return nil, contact.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, tenantID string, f contact.ListFilter) ([]domain.Contact, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Contact
	for _, c := range m.contacts {
		if c.TenantID != tenantID {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			hay := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.Email + " " + c.ExternalID)
			if !strings.Contains(hay, s) {
				continue
			}
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memRepo) Create(_ context.Context, c *domain.Contact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.contacts {
		if existing.TenantID != c.TenantID {
			continue
		}
		if (c.Email != "" && strings.EqualFold(existing.Email, c.Email)) ||
			(c.ExternalID != "" && existing.ExternalID == c.ExternalID) ||
			(c.Phone != "" && existing.Phone == c.Phone) {
			return "", contact.ErrDuplicate
		}
	}
	cp := *c
	m.contacts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) Update(_ context.Context, tenantID, id string, u contact.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.TenantID != tenantID {
		return contact.ErrNotFound
	}
	if u.FirstName != nil {
		c.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		c.LastName = *u.LastName
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.ExternalID != nil {
		c.ExternalID = *u.ExternalID
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.TenantID != tenantID {
		return contact.ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func (m *memRepo) FindExisting(_ context.Context, tenantID string, key importer.DuplicateKey) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if c.TenantID != tenantID {
			continue
		}
		if (key.Email != "" && strings.EqualFold(c.Email, key.Email)) ||
			(key.ExternalID != "" && c.ExternalID == key.ExternalID) ||
			(key.Phone != "" && c.Phone == key.Phone) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func testConfig() importer.Config {
	return importer.Config{
		Phone:           importer.PhoneConfig{Policy: importer.PolicyLocal8},
		DefaultTenantID: "zain_bh",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := contact.NewService(newMemRepo(), testConfig())

	c, err := svc.Create(context.Background(), "zain_bh", contact.CreateInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Phone:     "1234-5678",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Phone != "12345678" {
		t.Errorf("stored phone = %q, want canonical %q", c.Phone, "12345678")
	}

	got, err := svc.Get(context.Background(), "zain_bh", c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DisplayName() != "John Doe" {
		t.Errorf("DisplayName = %q", got.DisplayName())
	}
}

func TestCreateRejectsDuplicateSignals(t *testing.T) {
	svc := contact.NewService(newMemRepo(), testConfig())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "zain_bh", contact.CreateInput{
		FirstName: "John", Email: "john@example.com", Phone: "12345678", ExternalID: "EMP001",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name  string
		input contact.CreateInput
	}{
		{"same email", contact.CreateInput{FirstName: "J", Email: "JOHN@example.com", Phone: "87654321"}},
		{"same external id", contact.CreateInput{FirstName: "J", Phone: "87654321", ExternalID: "EMP001"}},
		{"same phone after canonicalization", contact.CreateInput{FirstName: "J", Phone: "1234 5678"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "zain_bh", tt.input)
			if !errors.Is(err, contact.ErrDuplicate) {
				t.Errorf("Create error = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	svc := contact.NewService(newMemRepo(), testConfig())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "zain_bh", contact.CreateInput{Phone: "12345678"}); !errors.Is(err, contact.ErrNameRequired) {
		t.Errorf("no names: error = %v, want ErrNameRequired", err)
	}
	if _, err := svc.Create(ctx, "zain_bh", contact.CreateInput{FirstName: "John", Phone: "123"}); !errors.Is(err, contact.ErrPhoneInvalid) {
		t.Errorf("bad phone: error = %v, want ErrPhoneInvalid", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	svc := contact.NewService(newMemRepo(), testConfig())
	ctx := context.Background()

	// The same phone may exist under two different tenants.
	if _, err := svc.Create(ctx, "zain_bh", contact.CreateInput{FirstName: "A", Phone: "12345678"}); err != nil {
		t.Fatalf("tenant A create: %v", err)
	}
	if _, err := svc.Create(ctx, "stc_kw", contact.CreateInput{FirstName: "B", Phone: "12345678"}); err != nil {
		t.Fatalf("tenant B create: %v", err)
	}
}

func TestImportPersistsAcceptedRows(t *testing.T) {
	repo := newMemRepo()
	svc := contact.NewService(repo, testConfig())

	csv := "first_name,last_name,email,phone_number,external_id\n" +
		"John,Doe,john@example.com,12345678,EMP001\n" +
		"Jane,Smith,jane@example.com,87654321,EMP002\n"

	result, err := svc.Import(context.Background(), "zain_bh", "importer@test", csv)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Summary.AcceptedCount != 2 || result.Summary.DuplicateCount != 0 || result.Summary.InvalidCount != 0 {
		t.Fatalf("Summary = %+v", result.Summary)
	}

	contacts, total, err := svc.List(context.Background(), "zain_bh", contact.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(contacts) != 2 {
		t.Errorf("stored %d contacts, want 2", total)
	}
}

func TestImportReportsStoreSideDuplicates(t *testing.T) {
	repo := newMemRepo()
	svc := contact.NewService(repo, testConfig())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "zain_bh", contact.CreateInput{
		FirstName: "Existing", Email: "john@example.com", Phone: "99998888",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Unique within the batch, but the email is already stored.
	csv := "first_name,last_name,email,phone_number\n" +
		"John,Doe,john@example.com,12345678\n"

	result, err := svc.Import(ctx, "zain_bh", "importer@test", csv)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Summary.DuplicateCount != 1 || result.Summary.AcceptedCount != 0 {
		t.Fatalf("Summary = %+v, want one store-side duplicate", result.Summary)
	}
	if result.Duplicates[0].Reason != importer.ReasonEmail {
		t.Errorf("Reason = %q, want email", result.Duplicates[0].Reason)
	}
}

func TestImportFileLevelErrorsAbort(t *testing.T) {
	svc := contact.NewService(newMemRepo(), testConfig())

	if _, err := svc.Import(context.Background(), "zain_bh", "", "first_name,phone\n"); err == nil {
		t.Error("header-only payload did not fail")
	}

	_, err := svc.Import(context.Background(), "zain_bh", "", "first_name,last_name\nJohn,Doe\n")
	var se *importer.SchemaError
	if !errors.As(err, &se) {
		t.Errorf("error = %v, want SchemaError", err)
	}
}
