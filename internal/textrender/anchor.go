package textrender

import "strings"

// collapseAnchor implements the anchor-text rule: if text is
// equal to (or a visible truncation of) href, the anchor collapses to the
// bare URL; otherwise it renders as "text (url)".
func collapseAnchor(text, href string) string {
	text = strings.TrimSpace(text)
	href = strings.TrimSpace(href)
	if href == "" {
		return text
	}
	if text == "" {
		return href
	}
	if text == href {
		return href
	}
	if isVisibleTruncation(text, href) {
		return href
	}
	return text + " (" + href + ")"
}

// isVisibleTruncation reports whether text looks like an ellipsis-clipped
// prefix of href, e.g. "http://example.org/some/very/long/..." for
// "http://example.org/some/very/long/path".
func isVisibleTruncation(text, href string) bool {
	trimmed := strings.TrimRight(text, ".…")
	trimmed = strings.TrimSuffix(trimmed, "...")
	if trimmed == "" {
		return false
	}
	return strings.HasPrefix(href, trimmed)
}
