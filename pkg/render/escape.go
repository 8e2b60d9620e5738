package render

import "strings"

// escapeHTML escapes text for safe inclusion in HTML content.
// Input is scanned once, so entities produced here are never escaped again
// and an "&amp;" already present in the input becomes "&amp;amp;".
func escapeHTML(s string) string {
	return escape(s, false)
}

// escapeAttr escapes text for a double-quoted attribute value. In addition
// to the text entities it encodes whitespace that attribute value
// normalization would otherwise collapse.
func escapeAttr(s string) string {
	return escape(s, true)
}

// EscapeString exposes text escaping for callers that assemble markup by
// hand, such as error pages.
func EscapeString(s string) string {
	return escapeHTML(s)
}

// escape works on bytes: every escaped character is ASCII, and all other
// bytes, including invalid UTF-8, are copied through unchanged.
func escape(s string, attr bool) string {
	if !needsEscape(s, attr) {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + len(s)/4)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			if attr {
				buf.WriteString("&#10;")
			} else {
				buf.WriteByte(c)
			}
		case '\r':
			if attr {
				buf.WriteString("&#13;")
			} else {
				buf.WriteByte(c)
			}
		case '\t':
			if attr {
				buf.WriteString("&#9;")
			} else {
				buf.WriteByte(c)
			}
		default:
			buf.WriteByte(c)
		}
	}

	return buf.String()
}

func needsEscape(s string, attr bool) bool {
	chars := `&<>"'`
	if attr {
		chars += "\n\r\t"
	}
	return strings.ContainsAny(s, chars)
}
