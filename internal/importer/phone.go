package importer

import "strings"

// PhonePolicy selects the canonical phone shape for a deployment.
type PhonePolicy string

const (
	// PolicyLocal8 expects local numbers of exactly 8 digits with no
	// country code (GCC-style local dialing).
	PolicyLocal8 PhonePolicy = "local8"
	// PolicyE164 expects a leading + followed by 7-15 digits with no
	// leading zero after the +.
	PolicyE164 PhonePolicy = "e164"
)

// PhoneConfig holds the per-deployment phone normalization settings.
type PhoneConfig struct {
	Policy PhonePolicy
	// DefaultCountryCode is prefixed onto bare national numbers under the
	// e164 policy, e.g. "1" or "973".
	DefaultCountryCode string
}

// CanonicalPhone normalizes a raw phone value per the configured policy.
// This is best-effort: the result may still fail ValidPhone, in which case
// the row is invalid and both forms are surfaced in the error message.
func CanonicalPhone(raw string, cfg PhoneConfig) string {
	stripped := stripPhone(raw)

	if cfg.Policy == PolicyLocal8 {
		return strings.TrimPrefix(stripped, "+")
	}

	if strings.HasPrefix(stripped, "+") {
		return stripped
	}

	cc := cfg.DefaultCountryCode
	switch {
	case len(stripped) == 10 && cc != "":
		// Bare national number, assume the default country.
		return "+" + cc + stripped
	case len(stripped) == 11 && cc != "" && strings.HasPrefix(stripped, cc):
		return "+" + stripped
	case len(stripped) >= 11 && len(stripped) <= 15:
		// Long enough to already carry a country code.
		return "+" + stripped
	default:
		return stripped
	}
}

// ValidPhone reports whether a canonicalized phone satisfies the configured
// shape.
func ValidPhone(canonical string, cfg PhoneConfig) bool {
	switch cfg.Policy {
	case PolicyE164:
		if !strings.HasPrefix(canonical, "+") {
			return false
		}
		digits := canonical[1:]
		if len(digits) < 7 || len(digits) > 15 {
			return false
		}
		if digits[0] == '0' {
			return false
		}
		return allDigits(digits)
	default: // PolicyLocal8
		return len(canonical) == 8 && allDigits(canonical)
	}
}

// stripPhone removes everything except digits and a single leading +.
func stripPhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r == '+' && i == 0 {
			b.WriteRune(r)
		} else if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
