package recording

import (
	"strconv"
	"strings"
)

// The session log is newline-delimited JSON-like records with a fixed, known
// shape. A scanning field extractor is enough to read it back; the only subtle
// part is skipping nested arrays/objects and quoted strings so a comma inside
// an entity list is not mistaken for a field separator.

// Field extracts the raw textual value of a top-level field from a record
// line. The value is returned as written (numbers unparsed, strings still
// quoted, arrays with brackets). Returns ok=false if the key is not present
// at the top level of the record.
func Field(line, key string) (string, bool) {
	needle := `"` + key + `":`

	depth := 0
	inStr := false
	escaped := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			// Only match keys directly inside the record object.
			if depth == 1 && strings.HasPrefix(line[i:], needle) {
				return scanValue(line, i+len(needle))
			}
			inStr = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}

	return "", false
}

// scanValue reads a field value starting at pos up to the next comma or
// closing brace at the value's own nesting level.
func scanValue(line string, pos int) (string, bool) {
	depth := 0
	inStr := false
	escaped := false

	start := pos
	for i := pos; i < len(line); i++ {
		c := line[i]

		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			inStr = true
		case '{', '[':
			depth++
		case '}', ']':
			if depth == 0 {
				return strings.TrimSpace(line[start:i]), true
			}
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(line[start:i]), true
			}
		}
	}

	return strings.TrimSpace(line[start:]), true
}

// ExtractArray returns the contents of the array whose opening bracket is at
// openIdx, without the surrounding brackets. Returns ok=false if openIdx does
// not point at '[' or the brackets never balance.
func ExtractArray(line string, openIdx int) (string, bool) {
	if openIdx < 0 || openIdx >= len(line) || line[openIdx] != '[' {
		return "", false
	}

	depth := 0
	inStr := false
	escaped := false

	for i := openIdx; i < len(line); i++ {
		c := line[i]

		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			inStr = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return line[openIdx+1 : i], true
			}
		}
	}

	return "", false
}

// SplitTopLevel splits an array body at commas that are not nested inside
// brackets, braces, or quoted strings. Returns nil for an empty body.
func SplitTopLevel(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	var parts []string
	depth := 0
	inStr := false
	escaped := false
	start := 0

	for i := 0; i < len(body); i++ {
		c := body[i]

		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			inStr = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}

	parts = append(parts, strings.TrimSpace(body[start:]))
	return parts
}

// StripQuotes removes one pair of surrounding double quotes, if present.
func StripQuotes(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// ParseFloat parses a raw numeric field value. Callers treat a failure on an
// optional field as "field absent" and on a required field as a fatal record.
func ParseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// FormatQuantized formats v with at most decimals fraction digits, no
// grouping separators, and '.' as the decimal point. Trailing zeros are
// trimmed so output stays compact and stable across platforms.
func FormatQuantized(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
