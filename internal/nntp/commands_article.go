package nntp

import (
	"fmt"
	"strings"
)

type articleKind int

const (
	artFull articleKind = iota
	artHead
	artBody
	artStat
)

var articleCodes = map[articleKind]int{
	artFull: 220,
	artHead: 221,
	artBody: 222,
	artStat: 223,
}

// cmdArticleLike implements ARTICLE/HEAD/BODY/STAT.
func (c *clientConn) cmdArticleLike(args []string, kind articleKind) error {
	if len(args) > 1 {
		return c.sendResponse(501, "Bad syntax")
	}
	var arg string
	if len(args) == 1 {
		arg = args[0]
	}

	r, rerr := c.resolveTarget(arg)
	if rerr != nil {
		return c.sendResponse(rerr.code, rerr.msg)
	}

	// Selecting by number (or implicitly, the current article) moves the
	// current-article pointer; selecting by message-id never does.
	byID := strings.HasPrefix(arg, "<")
	if !byID {
		c.currentNumber = r.num
		c.haveNumber = true
	}

	status := fmt.Sprintf("%d %s", r.responseNum, r.msgID)
	code := articleCodes[kind]

	if kind == artStat {
		return c.sendResponse(code, status)
	}

	text, err := c.server.Store.ReadArticleFile(r.group, r.topic, r.num)
	if err != nil {
		return c.sendResponse(423, "No such article number in this group")
	}
	headers, body := splitArticleText(text)

	var lines []string
	switch kind {
	case artFull:
		lines = strings.Split(headers, "\n")
		lines = append(lines, "")
		lines = append(lines, strings.Split(strings.TrimRight(body, "\n"), "\n")...)
	case artHead:
		lines = strings.Split(headers, "\n")
	case artBody:
		lines = strings.Split(strings.TrimRight(body, "\n"), "\n")
	}
	return c.sendMultilineResponse(code, status, lines)
}

func splitArticleText(text string) (headers, body string) {
	parts := strings.SplitN(text, "\n\n", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
