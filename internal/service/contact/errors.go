package contact

import "errors"

// Sentinel errors for the contact service layer.
var (
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicate is returned by the repository when an insert collides
	// with a per-tenant unique index on email, phone, or external_id.
	ErrDuplicate    = errors.New("contact already exists")
	ErrPhoneInvalid = errors.New("phone number does not match the configured policy")
	ErrNameRequired = errors.New("contact must have first name or last name")
)
