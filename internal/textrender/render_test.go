package textrender

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func renderHTML(t *testing.T, html string) Result {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div id='root'>" + html + "</div>"))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return Render(doc.Find("#root"))
}

func TestRenderPlainParagraph(t *testing.T) {
	r := renderHTML(t, "<p>hello world</p>")
	if r.Body != "hello world" {
		t.Errorf("Body = %q, want %q", r.Body, "hello world")
	}
}

func TestRenderBlockquoteNesting(t *testing.T) {
	r := renderHTML(t, "<blockquote><p>quoted text</p></blockquote>")
	if !strings.HasPrefix(r.Body, "> ") {
		t.Errorf("Body = %q, want to start with '> '", r.Body)
	}
}

func TestRenderCodeBlockVerbatim(t *testing.T) {
	r := renderHTML(t, "<pre>line one\n  indented line\nline three</pre>")
	if !strings.Contains(r.Body, "  indented line") {
		t.Errorf("Body = %q, want verbatim indentation preserved", r.Body)
	}
}

func TestRenderTrailingLinkLinePromotedToXLink(t *testing.T) {
	r := renderHTML(t, "<p>body text</p><p>&gt;&gt;&gt; подробнее (http://example.org/x)</p>")
	if r.XLinkURL != "http://example.org/x" {
		t.Errorf("XLinkURL = %q, want http://example.org/x", r.XLinkURL)
	}
	if r.XLinkText != "подробнее" {
		t.Errorf("XLinkText = %q, want %q", r.XLinkText, "подробнее")
	}
	if strings.Contains(r.Body, ">>>") {
		t.Errorf("Body still contains promoted trailing link line: %q", r.Body)
	}
}

func TestRenderTrailingVoteLinePromotedToXVote(t *testing.T) {
	r := renderHTML(t, "<p>body text</p><p>&gt;&gt;&gt; Голосовать (http://example.org/vote)</p>")
	if r.XVoteURL != "http://example.org/vote" {
		t.Errorf("XVoteURL = %q, want http://example.org/vote", r.XVoteURL)
	}
}

func TestRenderListMarkers(t *testing.T) {
	r := renderHTML(t, "<ul><li>first</li><li>second</li></ul>")
	if !strings.Contains(r.Body, "* first") {
		t.Errorf("Body = %q, want top-level list items prefixed with '*'", r.Body)
	}
}
