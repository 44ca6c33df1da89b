package nntp

import (
	"fmt"
	"strings"
	"time"

	"github.com/lornews/lord/internal/config"
)

var helpLines = []string{
	"HELP", "CAPABILITIES", "DATE", "MODE READER", "QUIT",
	"GROUP", "LISTGROUP", "LAST", "NEXT",
	"ARTICLE", "HEAD", "BODY", "STAT",
	"NEWGROUPS", "NEWNEWS", "LIST", "OVER", "XOVER", "POST",
}

func (c *clientConn) cmdHelp() error {
	return c.sendMultilineResponse(100, "Help text follows", helpLines)
}

func (c *clientConn) cmdCapabilities() error {
	lines := []string{
		"VERSION 2",
		fmt.Sprintf("IMPLEMENTATION lord/%s", config.AppVersion),
		"READER",
		"NEWNEWS",
		"LIST ACTIVE NEWSGROUPS OVERVIEW.FMT",
		"OVER",
		"POST",
	}
	return c.sendMultilineResponse(101, "Capability list follows", lines)
}

func (c *clientConn) cmdDate() error {
	return c.sendResponse(111, time.Now().UTC().Format("20060102150405"))
}

func (c *clientConn) cmdMode(args []string) error {
	if len(args) != 1 || !strings.EqualFold(args[0], "READER") {
		return c.sendResponse(501, "Bad syntax")
	}
	return c.sendResponse(200, "Posting allowed")
}
