package nntp

import (
	"strconv"
	"strings"

	"github.com/lornews/lord/internal/models"
	"github.com/lornews/lord/internal/store"
)

// resolveError is a (code, message) pair for a failed resolution.
type resolveError struct {
	code int
	msg  string
}

func (e *resolveError) Error() string { return e.msg }

// resolved identifies one article: its home group/number, and the
// number to report to the client (0 if the article was found by
// message-id in a group other than the current one).
type resolved struct {
	group       string
	topic       int64
	comment     int64
	num         int64
	responseNum int64
	msgID       string
}

// resolveTarget implements the ARTICLE|HEAD|BODY|STAT argument grammar:
// no argument (current article), a bare number (current group), or a
// bracketed message-id (searched across the catalog).
func (c *clientConn) resolveTarget(arg string) (*resolved, *resolveError) {
	if arg == "" {
		if c.currentGroup == "" {
			return nil, &resolveError{412, "No newsgroup selected"}
		}
		if !c.haveNumber {
			return nil, &resolveError{420, "Current article number is invalid"}
		}
		return c.resolveByNumber(c.currentGroup, c.currentNumber, true)
	}

	if strings.HasPrefix(arg, "<") {
		return c.resolveByMessageID(arg)
	}

	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, &resolveError{501, "Bad syntax"}
	}
	if c.currentGroup == "" {
		return nil, &resolveError{412, "No newsgroup selected"}
	}
	return c.resolveByNumber(c.currentGroup, n, true)
}

func (c *clientConn) resolveByNumber(group string, n int64, sameGroupResponse bool) (*resolved, *resolveError) {
	gi, err := c.server.Store.OpenGroupIndex(group, store.ReadOnly)
	if err != nil {
		return nil, &resolveError{423, "No such article number in this group"}
	}
	defer gi.Close()

	topic, comment, ok, err := gi.LookupByNumber(n)
	if err != nil || !ok {
		return nil, &resolveError{423, "No such article number in this group"}
	}

	r := &resolved{group: group, topic: topic, comment: comment, num: n}
	if comment == 0 {
		r.msgID = models.TopicMessageID(topic)
	} else {
		r.msgID = models.CommentMessageID(topic, comment)
	}
	if sameGroupResponse {
		r.responseNum = n
	}
	return r, nil
}

func (c *clientConn) resolveByMessageID(id string) (*resolved, *resolveError) {
	topic, comment, ok := models.ParseMessageID(id)
	if !ok {
		return nil, &resolveError{430, "No article with that message-id"}
	}

	groups, err := c.server.Cfg.LoadCatalog()
	if err != nil {
		return nil, &resolveError{430, "No article with that message-id"}
	}
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}

	group, num, _, found, err := c.server.Store.LookupByMessageID(names, id)
	if err != nil || !found {
		return nil, &resolveError{430, "No article with that message-id"}
	}

	r := &resolved{group: group, topic: topic, comment: comment, num: num, msgID: id}
	if group == c.currentGroup {
		r.responseNum = num
	}
	return r, nil
}
