package importer

import "strings"

// Reason names the identity signal that matched when a record is classified
// as a duplicate. The vocabulary is shared between the in-batch classifier
// and the durable-store check at persistence time.
type Reason string

const (
	ReasonEmail      Reason = "email"
	ReasonExternalID Reason = "external_id"
	ReasonPhone      Reason = "phone"
)

// DuplicateKey is the triple of identity signals used for OR-matching
// against previously accepted or stored records. Name is deliberately not
// part of the key: two people may share a name.
type DuplicateKey struct {
	Email      string // case-folded
	ExternalID string // verbatim trimmed
	Phone      string // canonical form
}

// KeyFor derives the duplicate key of a candidate under the given phone
// policy. Deterministic: the same candidate always yields the same key.
func KeyFor(c Candidate, phone PhoneConfig) DuplicateKey {
	return DuplicateKey{
		Email:      strings.ToLower(strings.TrimSpace(c.Email)),
		ExternalID: strings.TrimSpace(c.ExternalID),
		Phone:      CanonicalPhone(c.Phone, phone),
	}
}

// Match reports whether two keys identify the same contact and, if so, the
// first matching signal in the fixed order email, external_id, phone. Empty
// signals never match.
func Match(a, b DuplicateKey) (Reason, bool) {
	if a.Email != "" && a.Email == b.Email {
		return ReasonEmail, true
	}
	if a.ExternalID != "" && a.ExternalID == b.ExternalID {
		return ReasonExternalID, true
	}
	if a.Phone != "" && a.Phone == b.Phone {
		return ReasonPhone, true
	}
	return "", false
}

// classifier tracks the keys of rows accepted so far in the current batch.
// Classification runs against accepted rows only: colliding with a rejected
// row does not make a record a duplicate.
type classifier struct {
	phone PhoneConfig
	seen  []DuplicateKey
}

func newClassifier(phone PhoneConfig) *classifier {
	return &classifier{phone: phone}
}

// Classify checks the candidate against every accepted key in original
// order. On a miss the candidate's key joins the accepted set.
func (cl *classifier) Classify(c Candidate) (Reason, bool) {
	key := KeyFor(c, cl.phone)
	for _, prev := range cl.seen {
		if reason, ok := Match(key, prev); ok {
			return reason, true
		}
	}
	cl.seen = append(cl.seen, key)
	return "", false
}
