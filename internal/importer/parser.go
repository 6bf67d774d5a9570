package importer

import (
	"strings"
)

// RawRow is one data row of the source file, keyed by the lower-cased,
// trimmed header cells. Row is the 1-based position among non-empty lines
// (the header is row 1, the first data row is row 2).
type RawRow struct {
	Row    int
	Fields map[string]string
}

// parseResult holds the header and data rows of one parsed file.
type parseResult struct {
	Header []string
	Rows   []RawRow
}

// parseRows splits the payload into a header plus data rows. Lines that are
// empty after trimming are skipped and do not advance row numbering. Rows
// shorter than the header are padded with empty strings; extra trailing
// fields are dropped.
func parseRows(text string, delim rune) (*parseResult, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return nil, &ParseError{Reason: "file must contain a header row and at least one data row"}
	}

	header := splitFields(lines[0], delim)
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	result := &parseResult{Header: header}
	for i, line := range lines[1:] {
		cells := splitFields(line, delim)
		fields := make(map[string]string, len(header))
		for col, key := range header {
			if col < len(cells) {
				fields[key] = cells[col]
			} else {
				fields[key] = ""
			}
		}
		result.Rows = append(result.Rows, RawRow{
			Row:    i + 2, // header is row 1
			Fields: fields,
		})
	}

	return result, nil
}

// splitFields splits a single line on the delimiter. A double quote toggles
// quoted state, inside which the delimiter is literal. Records never span
// lines; quote characters themselves are not emitted.
func splitFields(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())

	return fields
}
