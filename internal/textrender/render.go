package textrender

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Result is a rendered message body plus any trailing link line promoted
// out of the body text.
type Result struct {
	Body       string
	XLinkURL   string
	XLinkText  string
	XVoteURL   string
}

// voteLabel is the Forum's fixed label for a vote link, distinguishing
// X-Vote-URL promotion from a plain X-Link-URL promotion.
const voteLabel = "Голосовать"

var trailingLinkLine = regexp.MustCompile(`^>>>\s*(.+?)\s*\(([^)]+)\)\s*$`)

// Render walks sel's child nodes into wrapped plain text, then strips
// and promotes a trailing ">>> label (url)" line if present.
func Render(sel *goquery.Selection) Result {
	blocks := renderChildren(sel, 0, 0)
	body := strings.Join(blocks, "\n\n")

	lines := strings.Split(body, "\n")
	if n := len(lines); n > 0 {
		if m := trailingLinkLine.FindStringSubmatch(strings.TrimSpace(lines[n-1])); m != nil {
			label, url := m[1], m[2]
			body = strings.TrimRight(strings.Join(lines[:n-1], "\n"), "\n")
			r := Result{Body: body}
			if label == voteLabel {
				r.XVoteURL = url
			} else {
				r.XLinkURL = url
				r.XLinkText = label
			}
			return r
		}
	}
	return Result{Body: body}
}

// renderChildren renders sel's direct element children as a sequence of
// blocks (paragraphs, quoted blocks, lists, code blocks).
func renderChildren(sel *goquery.Selection, quoteDepth, listDepth int) []string {
	var blocks []string
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		if node == nil {
			return
		}
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(child.Text()); text != "" {
				blocks = append(blocks, wrapParagraph(text, quotePrefix(quoteDepth)))
			}
			return
		}
		if node.Type != html.ElementNode {
			return
		}

		switch node.Data {
		case "blockquote":
			blocks = append(blocks, renderChildren(child, quoteDepth+1, listDepth)...)
		case "pre", "code":
			blocks = append(blocks, renderCodeBlock(child, quoteDepth))
		case "ul", "ol":
			blocks = append(blocks, renderList(child, quoteDepth, listDepth+1)...)
		case "br":
			// handled inline within paragraph text extraction
		case "p", "div":
			if hasBlockChildren(child) {
				blocks = append(blocks, renderChildren(child, quoteDepth, listDepth)...)
				return
			}
			text := inlineText(child)
			if strings.TrimSpace(text) != "" {
				blocks = append(blocks, wrapParagraph(text, quotePrefix(quoteDepth)))
			}
		default:
			text := inlineText(child)
			if strings.TrimSpace(text) != "" {
				blocks = append(blocks, wrapParagraph(text, quotePrefix(quoteDepth)))
			}
		}
	})
	return blocks
}

// hasBlockChildren reports whether sel directly contains block-level
// elements that renderChildren must descend into rather than flattening
// to inline text.
func hasBlockChildren(sel *goquery.Selection) bool {
	return sel.ChildrenFiltered("blockquote, pre, ul, ol, p, div").Length() > 0
}

// renderList renders <li> items with alternating markers by nesting depth.
func renderList(sel *goquery.Selection, quoteDepth, listDepth int) []string {
	prefix := quotePrefix(quoteDepth) + listMarker(listDepth) + " "
	var items []string
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		own := li.Clone()
		own.ChildrenFiltered("ul, ol").Remove()
		items = append(items, wrapParagraph(inlineText(own), prefix))
		li.ChildrenFiltered("ul, ol").Each(func(_ int, sub *goquery.Selection) {
			items = append(items, renderList(sub, quoteDepth, listDepth+1)...)
		})
	})
	return items
}

// renderCodeBlock preserves a <pre>/<code> block verbatim.
func renderCodeBlock(sel *goquery.Selection, quoteDepth int) string {
	prefix := quotePrefix(quoteDepth)
	text := sel.Text()
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// inlineText walks sel's subtree collapsing <a> anchors and <br> tags,
// collapsing anchors to "text (url)" or a bare URL, and returns plain inline text.
func inlineText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "br":
				b.WriteString("\n")
				return
			case "a":
				b.WriteString(collapseAnchor(nodeText(n), attrValue(n, "href")))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

// attrValue returns n's attribute value for key, or "" if absent.
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all text descendants of n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
