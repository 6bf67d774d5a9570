package importer

import "fmt"

// ParseError is a file-level failure: the payload cannot be read as a
// delimited file at all. Nothing is imported when this is returned.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// SchemaError is a file-level failure: the header row exists but no column
// could be resolved to a required semantic field. Nothing is imported when
// this is returned.
type SchemaError struct {
	Field Field
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: no column maps to required field %q", string(e.Field))
}
