package importer

import (
	"fmt"
	"strings"
)

// Validator applies the per-row field rules. A row is invalid when it
// accumulates at least one violation; invalid rows are never considered for
// duplicate classification.
type Validator struct {
	phone PhoneConfig
}

// NewValidator creates a validator for the given phone policy.
func NewValidator(phone PhoneConfig) *Validator {
	return &Validator{phone: phone}
}

// Validate returns the ordered list of rule violations for a candidate.
// An empty list means the row is valid.
func (v *Validator) Validate(c Candidate) []string {
	var violations []string

	if c.FirstName == "" && c.LastName == "" {
		violations = append(violations, "must have first name or last name")
	}

	if c.Phone == "" {
		violations = append(violations, "phone number is required")
	} else if canonical := CanonicalPhone(c.Phone, v.phone); !ValidPhone(canonical, v.phone) {
		violations = append(violations,
			fmt.Sprintf("invalid phone number %q (canonicalized to %q)", c.Phone, canonical))
	}

	if c.Email != "" && !validEmail(c.Email) {
		violations = append(violations, fmt.Sprintf("invalid email address %q", c.Email))
	}

	return violations
}

// validEmail checks the minimal local-part@domain.tld shape: at least one @,
// at least one dot after the @, no whitespace.
func validEmail(email string) bool {
	if strings.ContainsAny(email, " \t") {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
