package importer

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	v := NewValidator(PhoneConfig{Policy: PolicyLocal8})

	tests := []struct {
		name      string
		candidate Candidate
		wantErrs  []string // substrings expected in the violations, in order
	}{
		{
			name:      "valid row",
			candidate: Candidate{FirstName: "John", Phone: "12345678", Email: "john@example.com"},
		},
		{
			name:      "last name alone is enough",
			candidate: Candidate{LastName: "Doe", Phone: "12345678"},
		},
		{
			name:      "missing both names",
			candidate: Candidate{Phone: "12345678"},
			wantErrs:  []string{"must have first name or last name"},
		},
		{
			name:      "missing phone",
			candidate: Candidate{FirstName: "John"},
			wantErrs:  []string{"phone number is required"},
		},
		{
			name:      "short phone surfaces both forms",
			candidate: Candidate{FirstName: "John", Phone: "123-456"},
			wantErrs:  []string{`"123-456"`, `"123456"`},
		},
		{
			name:      "bad email",
			candidate: Candidate{FirstName: "John", Phone: "12345678", Email: "not-an-email"},
			wantErrs:  []string{`"not-an-email"`},
		},
		{
			name:      "violations accumulate",
			candidate: Candidate{Phone: "123", Email: "bad@nodot"},
			wantErrs:  []string{"first name or last name", "invalid phone", "invalid email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.candidate)
			if len(tt.wantErrs) == 0 {
				if len(got) != 0 {
					t.Fatalf("Validate = %v, want no violations", got)
				}
				return
			}
			joined := strings.Join(got, " | ")
			for _, want := range tt.wantErrs {
				if !strings.Contains(joined, want) {
					t.Errorf("violations %q missing %q", joined, want)
				}
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "john.doe@sub.example.com", "x+y@example.io"}
	invalid := []string{"@example.com", "john@", "john@nodot", "jo hn@example.com", "john@.com", "john@com."}

	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("validEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("validEmail(%q) = true, want false", e)
		}
	}
}
