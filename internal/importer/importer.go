// Package importer implements the contact import pipeline: raw delimited
// text is parsed into rows, each row is mapped to a candidate contact,
// validated, and classified against the rows accepted earlier in the same
// batch. Every data row lands in exactly one of the accepted, duplicate or
// invalid buckets; file-level failures (ParseError, SchemaError) abort the
// import with no partial result.
//
// The pipeline is synchronous, owns no state across calls, and re-running
// it on the same payload with the same config yields an identical result.
package importer

// Config carries the per-deployment import settings.
type Config struct {
	// Delimiter is the field separator; comma when zero.
	Delimiter rune
	// Aliases resolves header names to semantic fields; DefaultAliasRules
	// when nil.
	Aliases []AliasRule
	// Phone selects the canonical phone shape.
	Phone PhoneConfig
	// DefaultTenantID is assigned to rows without a tenant column.
	DefaultTenantID string
}

// DuplicateRecord pairs a rejected candidate with the signal that matched.
type DuplicateRecord struct {
	Contact Candidate `json:"contact"`
	Reason  Reason    `json:"reason"`
}

// InvalidRecord pairs a row number with its validation errors.
type InvalidRecord struct {
	Row    int      `json:"row_number"`
	Errors []string `json:"errors"`
}

// Summary holds the per-bucket counts for one batch.
type Summary struct {
	AcceptedCount  int `json:"accepted_count"`
	DuplicateCount int `json:"duplicate_count"`
	InvalidCount   int `json:"invalid_count"`
}

// BatchResult is the partitioned outcome of one import invocation. Buckets
// preserve original file order and are never mutated after Run returns.
type BatchResult struct {
	Accepted   []Candidate       `json:"accepted"`
	Duplicates []DuplicateRecord `json:"duplicates"`
	Invalid    []InvalidRecord   `json:"invalid"`
	Summary    Summary           `json:"summary"`
}

// Run executes the pipeline over the decoded payload. Returns ParseError
// for a structurally unreadable file and SchemaError when a required
// semantic field resolves to no column; all row-level problems are reported
// in the result instead.
func Run(text string, cfg Config) (*BatchResult, error) {
	delim := cfg.Delimiter
	if delim == 0 {
		delim = ','
	}
	rules := cfg.Aliases
	if rules == nil {
		rules = DefaultAliasRules()
	}

	parsed, err := parseRows(text, delim)
	if err != nil {
		return nil, err
	}

	hm, err := ResolveHeader(parsed.Header, rules)
	if err != nil {
		return nil, err
	}

	validator := NewValidator(cfg.Phone)
	cl := newClassifier(cfg.Phone)

	result := &BatchResult{
		Accepted:   []Candidate{},
		Duplicates: []DuplicateRecord{},
		Invalid:    []InvalidRecord{},
	}

	for _, row := range parsed.Rows {
		c := MapRow(row, hm, cfg.DefaultTenantID)

		if violations := validator.Validate(c); len(violations) > 0 {
			result.Invalid = append(result.Invalid, InvalidRecord{Row: c.Row, Errors: violations})
			continue
		}

		if reason, dup := cl.Classify(c); dup {
			result.Duplicates = append(result.Duplicates, DuplicateRecord{Contact: c, Reason: reason})
			continue
		}

		result.Accepted = append(result.Accepted, c)
	}

	result.Summary = Summary{
		AcceptedCount:  len(result.Accepted),
		DuplicateCount: len(result.Duplicates),
		InvalidCount:   len(result.Invalid),
	}
	return result, nil
}
