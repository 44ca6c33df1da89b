package forumapi

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LoginFailed reports whether a response to a login POST indicates failure,
// by the Forum's convention of re-rendering the login page with its
// original <title> instead of redirecting.
func LoginFailed(doc *goquery.Document) bool {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.EqualFold(title, "Вход")
}

// SubmissionError returns the Forum's rendered error message from a
// failed add.jsp/add_comment.jsp response, or "" if none is present.
func SubmissionError(doc *goquery.Document) string {
	msg := strings.TrimSpace(doc.Find("div.error").First().Text())
	return msg
}
