package core

// convert.go cleans spreadsheet and form input. Imported files come from
// Excel and other tools, so cells may carry formula prefixes, stray quotes,
// a byte order mark or invalid UTF-8.

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"time"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HeaderIndex maps lowercased header names to column positions.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// Lookup returns the position of the first name present in the index.
func (h HeaderIndex) Lookup(names ...string) (int, bool) {
	for _, n := range names {
		if pos, ok := h[strings.ToLower(n)]; ok {
			return pos, true
		}
	}
	return 0, false
}

// CleanCell trims whitespace, drops Excel formula prefixes (="..." and =)
// and surrounding quotes, and replaces invalid UTF-8.
func CleanCell(s string) string {
	s = strings.ToValidUTF8(strings.TrimSpace(s), "�")

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else {
		s = strings.TrimPrefix(s, "=")
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// SkipBOM returns a reader positioned after a leading UTF-8 byte order mark.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

var dateLayouts = []string{
	DateLayoutISO,
	"2006/01/02",
	DateLayoutSearch,
	DateLayoutDisplay,
	DateLayoutExcel,
	time.RFC3339,
}

// ParseDate accepts the layouts the app produces itself. It returns nil for
// an empty string and ok=false for anything unparseable.
func ParseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, true
		}
	}
	return nil, false
}

// ParseBool accepts the usual checkbox and spreadsheet spellings.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "on":
		return true
	}
	return false
}
