package format

import "strings"

// SplitTestNames splits a free-text list of test names into individual names.
// Separators are commas, and "-" or ";" surrounded by single spaces, but only
// outside parentheses: a parenthesized span is atomic, so a separator inside
// it never splits. Hyphens without surrounding spaces (compound names like
// "Anti-HBs") are never split points. The space-surrounded hyphen rule is a
// known heuristic carried over from the original data entry format; it is
// reproduced as-is rather than corrected.
func SplitTestNames(s string) []string {
	var names []string
	var buf strings.Builder
	depth := 0

	flush := func() {
		if name := strings.TrimSpace(buf.String()); name != "" {
			names = append(names, name)
		}
		buf.Reset()
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '(':
			depth++
			buf.WriteByte(ch)
		case ch == ')':
			if depth > 0 {
				depth--
			}
			buf.WriteByte(ch)
		case depth == 0 && ch == ',':
			flush()
		case depth == 0 && (ch == '-' || ch == ';') && spaceSurrounded(s, i):
			flush()
		default:
			buf.WriteByte(ch)
		}
	}
	flush()

	return names
}

// spaceSurrounded reports whether s[i] has exactly one space on each side.
func spaceSurrounded(s string, i int) bool {
	if i == 0 || i+1 >= len(s) {
		return false
	}
	if s[i-1] != ' ' || s[i+1] != ' ' {
		return false
	}
	if i >= 2 && s[i-2] == ' ' {
		return false
	}
	if i+2 < len(s) && s[i+2] == ' ' {
		return false
	}
	return true
}
