package puller

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseLastmodPage extracts the thread rows from one group-lastmod.jsp
// page. This is the one seam coupling the puller to the
// Forum's concrete markup.
func ParseLastmodPage(r io.Reader) ([]ThreadRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse lastmod page: %w", err)
	}

	var refs []ThreadRef
	doc.Find("tr.topic").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("a.topic-link").Attr("href")
		if !ok {
			return
		}
		topic, ok := topicIDFromHref(href)
		if !ok {
			return
		}

		pages := 1
		if pageText := strings.TrimSpace(row.Find(".pages-count").Text()); pageText != "" {
			if p, err := strconv.Atoi(pageText); err == nil {
				pages = p
			}
		}

		refs = append(refs, ThreadRef{
			Topic:        topic,
			CommentPages: pages,
			Clipped:      row.Find(".clipped-icon").Length() > 0,
			Age:          strings.TrimSpace(row.Find(".date").Text()),
		})
	})
	return refs, nil
}

// topicIDFromHref extracts the trailing numeric thread ID from an
// href like "/forum/talks/123456".
func topicIDFromHref(href string) (int64, bool) {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
