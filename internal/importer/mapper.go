package importer

import "strings"

// Field is a semantic contact attribute resolved from an arbitrary CSV
// header name via alias matching.
type Field string

const (
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone_number"
	FieldExternalID Field = "external_id"
	FieldTenantID   Field = "tenant_id"
)

// AliasRule binds a semantic field to the header substrings that identify
// it. Matching is case-insensitive substring, first-match-wins.
type AliasRule struct {
	Field      Field
	Substrings []string
}

// DefaultAliasRules returns the standard alias table. Rule order is the
// claim priority: each rule takes the first unclaimed header it matches, so
// last_name must claim "last_name" before the first_name rule sees the
// "name" substring.
func DefaultAliasRules() []AliasRule {
	return []AliasRule{
		{Field: FieldEmail, Substrings: []string{"email", "e-mail", "mail"}},
		{Field: FieldExternalID, Substrings: []string{"external", "subscriber", "crm", "employee", "id"}},
		{Field: FieldTenantID, Substrings: []string{"tenant"}},
		{Field: FieldPhone, Substrings: []string{"phone", "number", "tel", "mobile", "cell"}},
		{Field: FieldLastName, Substrings: []string{"last", "surname", "lname", "family"}},
		{Field: FieldFirstName, Substrings: []string{"first", "fname", "given", "name"}},
	}
}

// requiredFields are the semantic fields that must resolve to some header
// column for the file to be importable at all.
var requiredFields = []Field{FieldPhone}

// HeaderMap is the resolved mapping from semantic field to the header key
// that supplies it.
type HeaderMap map[Field]string

// ResolveHeader maps header columns to semantic fields using the alias
// rules. Each header column is claimed by at most one field. Returns a
// SchemaError when a required field has no matching column anywhere in the
// header; that fails the whole batch, not a single row.
func ResolveHeader(header []string, rules []AliasRule) (HeaderMap, error) {
	hm := make(HeaderMap, len(rules))
	claimed := make(map[string]bool, len(header))

	for _, rule := range rules {
	scan:
		for _, h := range header {
			if claimed[h] {
				continue
			}
			for _, sub := range rule.Substrings {
				if strings.Contains(h, sub) {
					hm[rule.Field] = h
					claimed[h] = true
					break scan
				}
			}
		}
	}

	for _, f := range requiredFields {
		if _, ok := hm[f]; !ok {
			return nil, &SchemaError{Field: f}
		}
	}

	return hm, nil
}

// Candidate is the normalized projection of a RawRow into the fields the
// system understands. Immutable once produced.
type Candidate struct {
	Row        int    `json:"-"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone_number"`
	ExternalID string `json:"external_id"`
	TenantID   string `json:"tenant_id"`
}

// MapRow projects a RawRow through the resolved header mapping. Values are
// trimmed; absent columns yield empty strings. The tenant falls back to the
// configured default when the file carries no tenant column.
func MapRow(row RawRow, hm HeaderMap, defaultTenantID string) Candidate {
	get := func(f Field) string {
		key, ok := hm[f]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row.Fields[key])
	}

	c := Candidate{
		Row:        row.Row,
		FirstName:  get(FieldFirstName),
		LastName:   get(FieldLastName),
		Email:      get(FieldEmail),
		Phone:      get(FieldPhone),
		ExternalID: get(FieldExternalID),
		TenantID:   get(FieldTenantID),
	}
	if c.TenantID == "" {
		c.TenantID = defaultTenantID
	}
	return c
}
