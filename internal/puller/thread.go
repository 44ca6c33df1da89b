package puller

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type bodyNode struct {
	sel *goquery.Selection
}

// dateLayout matches the Forum's rendered comment timestamp.
const dateLayout = "02.01.2006 15:04"

// ParseThreadPage extracts the topic subject, the topic-start message
// (first page only), and each comment from one thread page.
func ParseThreadPage(topic int64, r io.Reader, firstPage bool) (*ParsedThread, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse thread page: %w", err)
	}

	pt := &ParsedThread{Topic: topic}
	pt.Subject = strings.TrimSpace(doc.Find("h1.topic-title").First().Text())

	if firstPage {
		if root := doc.Find("div.topic-body").First(); root.Length() > 0 {
			msg := ParsedMessage{
				CommentID: 0,
				Subject:   pt.Subject,
				Author:    strings.TrimSpace(doc.Find(".topic-author").First().Text()),
				Stars:     strings.TrimSpace(doc.Find(".topic-stars").First().Text()),
				BodyNode:  bodyNode{sel: root},
			}
			msg.Date = parseDate(doc.Find(".topic-date").First().Text())
			pt.Messages = append(pt.Messages, msg)
		}
	}

	doc.Find("div.msg").Each(func(_ int, msgSel *goquery.Selection) {
		id := msgSel.AttrOr("id", "")
		commentID, parsed := commentIDFromAttr(id)
		if !parsed {
			return
		}

		var inReply int64
		if replyHref, ok := msgSel.Find("a.reply-to").Attr("href"); ok {
			if _, c, ok := parseCommentHref(replyHref); ok {
				inReply = c
			}
		}

		body := msgSel.Find(".msg-body").First()
		pt.Messages = append(pt.Messages, ParsedMessage{
			CommentID: commentID,
			InReplyTo: inReply,
			Author:    strings.TrimSpace(msgSel.Find(".msg-author").First().Text()),
			Banned:    msgSel.HasClass("banned"),
			Stars:     strings.TrimSpace(msgSel.Find(".msg-stars").First().Text()),
			Date:      parseDate(msgSel.Find(".msg-date").First().Text()),
			Subject:   strings.TrimSpace(msgSel.Find(".msg-subject").First().Text()),
			BodyNode:  bodyNode{sel: body},
		})
	})

	return pt, nil
}

func parseDate(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// commentIDFromAttr parses a "comment-N" DOM id attribute.
func commentIDFromAttr(id string) (int64, bool) {
	const prefix = "comment-"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseCommentHref extracts topic and comment IDs from an in-reply-to
// href like "/forum/talks/123456?cid=789#comment-789".
func parseCommentHref(href string) (topic, comment int64, ok bool) {
	idx := strings.Index(href, "#comment-")
	if idx < 0 {
		return 0, 0, false
	}
	c, err := strconv.ParseInt(href[idx+len("#comment-"):], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	path := href[:idx]
	if q := strings.IndexByte(path, '?'); q >= 0 {
		path = path[:q]
	}
	t, _ := topicIDFromHref(path)
	return t, c, true
}
