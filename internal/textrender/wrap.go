// Package textrender renders a parsed Forum message body (a goquery DOM
// subtree) to wrapped plain text.
package textrender

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const wrapColumn = 72

// wrapParagraph hard-wraps text at wrapColumn columns, prefixing every
// line (including the first) with prefix. Words longer than the
// available width are not split.
func wrapParagraph(text, prefix string) string {
	text = norm.NFC.String(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	avail := wrapColumn - utf8.RuneCountInString(prefix)
	if avail < 8 {
		avail = 8
	}

	var lines []string
	var line strings.Builder
	lineLen := 0
	for _, word := range fields {
		wlen := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+wlen > avail {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(word)
		lineLen += wlen
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}

	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// quotePrefix returns the "> " blockquote prefix for nesting depth.
func quotePrefix(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("> ", depth)
}

// listMarker alternates "*" and "-" by nesting depth.
func listMarker(depth int) string {
	if depth%2 == 1 {
		return "*"
	}
	return "-"
}
