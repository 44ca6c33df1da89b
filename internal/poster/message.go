// Package poster validates an incoming news article, resolves its
// posting target, refreshes the Forum session, and submits it.
package poster

import (
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/lornews/lord/internal/models"
)

// ParsedMessage is a validated incoming article ready to submit.
type ParsedMessage struct {
	From       string
	Newsgroup  string
	Subject    string
	Body       string
	Keywords   string
	XLinkURL   string
	XLinkText  string
	XImagePath string

	Topic     int64
	ReplyTo   int64 // 0 for a new topic
}

// Parse reads a complete RFC-5322 message from r and validates it:
// From has exactly one address and is not "anonymous"; exactly one
// Newsgroups; Subject present; the last References entry (if present)
// is a well-formed message-ID, and gives the topic and reply-to comment.
func Parse(r io.Reader) (*ParsedMessage, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	h := msg.Header

	addrs, err := mail.ParseAddressList(h.Get("From"))
	if err != nil || len(addrs) != 1 {
		return nil, fmt.Errorf("From must name exactly one address")
	}
	if strings.EqualFold(addrs[0].Address, "anonymous") || addrs[0].Address == "" {
		return nil, fmt.Errorf("anonymous posting is not permitted")
	}

	groups := strings.FieldsFunc(h.Get("Newsgroups"), func(r rune) bool { return r == ',' || r == ' ' })
	if len(groups) != 1 {
		return nil, fmt.Errorf("Newsgroups must name exactly one group")
	}

	subject := strings.TrimSpace(h.Get("Subject"))
	if subject == "" {
		return nil, fmt.Errorf("Subject is required")
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	pm := &ParsedMessage{
		From:       addrs[0].Address,
		Newsgroup:  groups[0],
		Subject:    subject,
		Body:       string(body),
		Keywords:   h.Get("Keywords"),
		XLinkURL:   h.Get("X-Link-URL"),
		XLinkText:  h.Get("X-Link-Text"),
		XImagePath: h.Get("X-Image-Path"),
	}

	if refs := strings.TrimSpace(h.Get("References")); refs != "" {
		fields := strings.Fields(refs)
		last := fields[len(fields)-1]
		topic, comment, ok := models.ParseMessageID(last)
		if !ok {
			return nil, fmt.Errorf("malformed References message-id %q", last)
		}
		pm.Topic = topic
		pm.ReplyTo = comment
	}

	return pm, nil
}
