package importer

import (
	"errors"
	"testing"
)

func TestParseRows(t *testing.T) {
	text := "first_name, Last_Name ,email\nJohn,Doe,john@example.com\n\n  \nJane,Smith,jane@example.com\n"
	parsed, err := parseRows(text, ',')
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}

	wantHeader := []string{"first_name", "last_name", "email"}
	for i, h := range wantHeader {
		if parsed.Header[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, parsed.Header[i], h)
		}
	}

	if len(parsed.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank lines skipped)", len(parsed.Rows))
	}
	if parsed.Rows[0].Row != 2 || parsed.Rows[1].Row != 3 {
		t.Errorf("row numbers = %d, %d; want 2, 3", parsed.Rows[0].Row, parsed.Rows[1].Row)
	}
	if parsed.Rows[1].Fields["email"] != "jane@example.com" {
		t.Errorf("row 3 email = %q", parsed.Rows[1].Fields["email"])
	}
}

func TestParseRowsRaggedRows(t *testing.T) {
	text := "first_name,last_name,email\nJohn\nJane,Smith,jane@example.com,extra,extra2\n"
	parsed, err := parseRows(text, ',')
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}

	// Missing trailing fields become empty strings.
	if got := parsed.Rows[0].Fields["email"]; got != "" {
		t.Errorf("short row email = %q, want empty", got)
	}
	// Extra fields are dropped.
	if got := parsed.Rows[1].Fields["email"]; got != "jane@example.com" {
		t.Errorf("long row email = %q", got)
	}
}

func TestParseRowsQuotedDelimiter(t *testing.T) {
	text := "name,note\nJohn,\"hello, world\"\n"
	parsed, err := parseRows(text, ',')
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}
	if got := parsed.Rows[0].Fields["note"]; got != "hello, world" {
		t.Errorf("quoted field = %q, want %q", got, "hello, world")
	}
}

func TestParseRowsCustomDelimiter(t *testing.T) {
	text := "name;phone\nJohn;12345678\n"
	parsed, err := parseRows(text, ';')
	if err != nil {
		t.Fatalf("parseRows: %v", err)
	}
	if got := parsed.Rows[0].Fields["phone"]; got != "12345678" {
		t.Errorf("phone = %q", got)
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "first_name,last_name\n", "first_name,last_name\n\n  \n"} {
		_, err := parseRows(text, ',')
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("parseRows(%q) error = %v, want ParseError", text, err)
		}
	}
}
