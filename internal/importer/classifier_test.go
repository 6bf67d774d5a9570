package importer

import "testing"

func TestMatch(t *testing.T) {
	base := DuplicateKey{Email: "john@example.com", ExternalID: "EMP001", Phone: "12345678"}

	tests := []struct {
		name       string
		other      DuplicateKey
		wantReason Reason
		wantMatch  bool
	}{
		{"email match", DuplicateKey{Email: "john@example.com"}, ReasonEmail, true},
		{"external id match", DuplicateKey{ExternalID: "EMP001"}, ReasonExternalID, true},
		{"phone match", DuplicateKey{Phone: "12345678"}, ReasonPhone, true},
		{"email wins over phone", DuplicateKey{Email: "john@example.com", Phone: "12345678"}, ReasonEmail, true},
		{"external id wins over phone", DuplicateKey{ExternalID: "EMP001", Phone: "12345678"}, ReasonExternalID, true},
		{"no signals", DuplicateKey{}, "", false},
		{"different everything", DuplicateKey{Email: "jane@example.com", ExternalID: "EMP002", Phone: "87654321"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := Match(base, tt.other)
			if ok != tt.wantMatch || reason != tt.wantReason {
				t.Errorf("Match = (%q, %v), want (%q, %v)", reason, ok, tt.wantReason, tt.wantMatch)
			}
		})
	}
}

func TestMatchEmptySignalsNeverMatch(t *testing.T) {
	a := DuplicateKey{Email: "", ExternalID: "", Phone: ""}
	b := DuplicateKey{Email: "", ExternalID: "", Phone: ""}
	if reason, ok := Match(a, b); ok {
		t.Errorf("two empty keys matched with reason %q", reason)
	}
}

func TestKeyForNormalization(t *testing.T) {
	cfg := PhoneConfig{Policy: PolicyLocal8}
	a := KeyFor(Candidate{Email: "John@Example.COM", ExternalID: " EMP001 ", Phone: "1234-5678"}, cfg)
	b := KeyFor(Candidate{Email: "john@example.com", ExternalID: "EMP001", Phone: "12345678"}, cfg)
	if a != b {
		t.Errorf("normalized keys differ: %+v vs %+v", a, b)
	}
}

func TestClassifySeenSetGrowsOnlyOnAccept(t *testing.T) {
	cl := newClassifier(PhoneConfig{Policy: PolicyLocal8})

	first := Candidate{FirstName: "John", Email: "john@example.com", Phone: "12345678"}
	if reason, dup := cl.Classify(first); dup {
		t.Fatalf("first row classified duplicate (%q)", reason)
	}

	// Same email, different casing, different phone.
	second := Candidate{FirstName: "Johnny", Email: "JOHN@example.com", Phone: "87654321"}
	reason, dup := cl.Classify(second)
	if !dup || reason != ReasonEmail {
		t.Errorf("Classify = (%q, %v), want (email, true)", reason, dup)
	}

	// The duplicate did not join the seen set, so its phone is still free.
	third := Candidate{FirstName: "Jane", Phone: "87654321"}
	if reason, dup := cl.Classify(third); dup {
		t.Errorf("third row classified duplicate (%q); duplicates must not enter the accepted set", reason)
	}
}
