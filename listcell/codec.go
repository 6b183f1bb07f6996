// Package listcell decodes and formats multi-valued cells that store
// list-like data as text (e.g. "['Alice', 'Bob']"). Production exports are
// inconsistently encoded, so decoding is a best-effort chain of attempts:
// a literal parse first, then bracket stripping and comma splitting.
package listcell

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Placeholder is the default display value for an empty list.
const Placeholder = "—"

// Decode parses a cell that stores list-like values as text. It never fails:
// input that cannot be parsed as a list literal is split on commas after
// stripping at most one leading and one trailing bracket. Blank input yields
// an empty result.
func Decode(raw string) []string {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return nil
	}

	if elems, ok := parseLiteral(cell); ok {
		return clean(elems)
	}

	// Unbalanced input is tolerated: each end is stripped independently.
	if len(cell) > 0 && isOpenBracket(cell[0]) {
		cell = cell[1:]
	}
	if len(cell) > 0 && isCloseBracket(cell[len(cell)-1]) {
		cell = cell[:len(cell)-1]
	}

	var out []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DecodeAny decodes a cell of unknown dynamic shape: native string slices
// pass through, other slices are stringified element-wise, scalars wrap into
// a one-element list, nil and NaN decode to an empty list.
func DecodeAny(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return clean(val)
	case []any:
		elems := make([]string, 0, len(val))
		for _, e := range val {
			elems = append(elems, fmt.Sprint(e))
		}
		return clean(elems)
	case string:
		return Decode(val)
	case float64:
		if math.IsNaN(val) {
			return nil
		}
		return clean([]string{fmt.Sprint(val)})
	default:
		return clean([]string{fmt.Sprint(val)})
	}
}

// Format joins items with ", " for display, using Placeholder when nothing
// remains after trimming.
func Format(items []string) string {
	return FormatWith(items, Placeholder)
}

// FormatWith is Format with a caller-supplied placeholder.
func FormatWith(items []string, placeholder string) string {
	cleaned := clean(items)
	if len(cleaned) == 0 {
		return placeholder
	}
	return strings.Join(cleaned, ", ")
}

// clean trims every element and drops the ones that become empty.
func clean(items []string) []string {
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseLiteral attempts to read the cell as a Python-style list, tuple or set
// literal of scalars. It reports false on any syntax it does not understand
// so the caller can fall through to lenient splitting.
func parseLiteral(cell string) ([]string, bool) {
	if len(cell) < 2 {
		return nil, false
	}
	var closer byte
	switch cell[0] {
	case '[':
		closer = ']'
	case '(':
		closer = ')'
	case '{':
		closer = '}'
	default:
		return nil, false
	}
	if cell[len(cell)-1] != closer {
		return nil, false
	}

	inner := cell[1 : len(cell)-1]
	var elems []string
	i, n := 0, len(inner)
	for {
		for i < n && isSpace(inner[i]) {
			i++
		}
		if i >= n {
			break
		}

		var elem string
		if inner[i] == '\'' || inner[i] == '"' {
			s, next, ok := scanQuoted(inner, i)
			if !ok {
				return nil, false
			}
			elem, i = s, next
		} else {
			start := i
			for i < n && inner[i] != ',' {
				switch inner[i] {
				case '[', '(', '{', '\'', '"':
					// Nested containers and mid-token quotes are beyond
					// the lenient grammar.
					return nil, false
				}
				i++
			}
			elem = strings.TrimSpace(inner[start:i])
			if !isBareLiteral(elem) {
				return nil, false
			}
		}

		elems = append(elems, elem)

		for i < n && isSpace(inner[i]) {
			i++
		}
		if i < n {
			if inner[i] != ',' {
				return nil, false
			}
			i++
		}
	}
	return elems, true
}

// scanQuoted reads a quoted string starting at inner[start] and returns its
// unescaped contents and the index just past the closing quote.
func scanQuoted(inner string, start int) (string, int, bool) {
	quote := inner[start]
	var b strings.Builder
	i := start + 1
	for i < len(inner) {
		c := inner[i]
		switch c {
		case '\\':
			if i+1 >= len(inner) {
				return "", 0, false
			}
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(inner[i])
			}
			i++
		case quote:
			return b.String(), i + 1, true
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

// isBareLiteral reports whether an unquoted token is something a literal
// parser would accept: a number or one of the Python keyword constants.
func isBareLiteral(tok string) bool {
	if tok == "" {
		return false
	}
	switch tok {
	case "True", "False", "None":
		return true
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isOpenBracket(c byte) bool {
	return c == '[' || c == '(' || c == '{'
}

func isCloseBracket(c byte) bool {
	return c == ']' || c == ')' || c == '}'
}
