package nntp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lornews/lord/internal/models"
	"github.com/lornews/lord/internal/store"
)

// groupStatus returns group's {count, min, max} triple. The catalog is
// authoritative: a group it does not list yields listed=false even
// if stale data exists on disk, and a listed group whose index has not
// been created yet reads as empty (count=0, min=1, max=0). A
// store-integrity error is returned as err; the worker does not recover
// from it.
func (c *clientConn) groupStatus(group string) (count, min, max int64, listed bool, err error) {
	_, inCatalog, lerr := c.server.Cfg.LookupGroup(group)
	if lerr != nil {
		return 0, 0, 0, false, lerr
	}
	if !inCatalog {
		return 0, 0, 0, false, nil
	}

	gi, oerr := c.server.Store.OpenGroupIndex(group, store.ReadOnly)
	if oerr != nil {
		var ie *store.IntegrityError
		if errors.As(oerr, &ie) {
			return 0, 0, 0, false, oerr
		}
		return 0, 1, 0, true, nil
	}
	defer gi.Close()

	count, min, max, serr := gi.Status()
	if serr != nil {
		return 0, 0, 0, false, serr
	}
	return count, min, max, true, nil
}

// cmdGroup implements GROUP.
func (c *clientConn) cmdGroup(args []string) error {
	if len(args) != 1 {
		return c.sendResponse(501, "Bad syntax")
	}
	group := args[0]

	count, min, max, listed, err := c.groupStatus(group)
	if err != nil {
		return err
	}
	if !listed {
		return c.sendResponse(411, "No such newsgroup")
	}

	c.currentGroup = group
	if count > 0 {
		c.currentNumber = min
		c.haveNumber = true
	} else {
		c.haveNumber = false
	}
	return c.sendResponse(211, fmt.Sprintf("%d %d %d %s", count, min, max, group))
}

// cmdListGroup implements LISTGROUP [g] [range].
func (c *clientConn) cmdListGroup(args []string) error {
	group := c.currentGroup
	rangeArg := ""

	switch len(args) {
	case 0:
	case 1:
		if looksLikeRange(args[0]) {
			rangeArg = args[0]
		} else {
			group = args[0]
		}
	case 2:
		group = args[0]
		rangeArg = args[1]
	default:
		return c.sendResponse(501, "Bad syntax")
	}

	if group == "" {
		return c.sendResponse(412, "No newsgroup selected")
	}

	count, min, max, listed, err := c.groupStatus(group)
	if err != nil {
		return err
	}
	if !listed {
		return c.sendResponse(411, "No such newsgroup")
	}

	lo, hi, err := parseRange(rangeArg, min, max)
	if err != nil {
		return c.sendResponse(501, "Bad syntax")
	}

	var nums []int64
	if count > 0 {
		gi, oerr := c.server.Store.OpenGroupIndex(group, store.ReadOnly)
		if oerr != nil {
			return c.sendResponse(503, "Internal error")
		}
		nums, err = gi.Scan(lo, hi)
		gi.Close()
		if err != nil {
			return c.sendResponse(503, "Internal error")
		}
	}

	c.currentGroup = group
	if count > 0 {
		c.currentNumber = min
		c.haveNumber = true
	} else {
		c.haveNumber = false
	}

	lines := make([]string, 0, len(nums))
	for _, n := range nums {
		lines = append(lines, strconv.FormatInt(n, 10))
	}
	return c.sendMultilineResponse(211, fmt.Sprintf("%d %d %d %s list follows", count, min, max, group), lines)
}

// cmdLastNext implements LAST (dir=-1) and NEXT (dir=+1).
func (c *clientConn) cmdLastNext(args []string, dir int64) error {
	if len(args) != 0 {
		return c.sendResponse(501, "Bad syntax")
	}
	if c.currentGroup == "" {
		return c.sendResponse(412, "No newsgroup selected")
	}
	if !c.haveNumber {
		return c.sendResponse(420, "Current article number is invalid")
	}

	gi, err := c.server.Store.OpenGroupIndex(c.currentGroup, store.ReadOnly)
	if err != nil {
		return c.sendResponse(411, "No such newsgroup")
	}
	defer gi.Close()

	_, min, max, err := gi.Status()
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	n := c.currentNumber
	for {
		n += dir
		if dir < 0 && n < min {
			return c.sendResponse(422, "No previous article in this group")
		}
		if dir > 0 && n > max {
			return c.sendResponse(421, "No next article in this group")
		}
		topic, comment, ok, err := gi.LookupByNumber(n)
		if err != nil {
			return c.sendResponse(503, "Internal error")
		}
		if !ok {
			continue
		}
		c.currentNumber = n
		msgID := models.TopicMessageID(topic)
		if comment != 0 {
			msgID = models.CommentMessageID(topic, comment)
		}
		return c.sendResponse(223, fmt.Sprintf("%d %s", n, msgID))
	}
}

func looksLikeRange(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// parseRange parses the range grammar: "N", "N-", "N-M". An empty
// arg means the whole group.
func parseRange(s string, defaultLo, defaultHi int64) (lo, hi int64, err error) {
	if s == "" {
		return defaultLo, defaultHi, nil
	}
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		loStr, hiStr := s[:idx], s[idx+1:]
		lo, err = strconv.ParseInt(loStr, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		if hiStr == "" {
			return lo, defaultHi, nil
		}
		hi, err = strconv.ParseInt(hiStr, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		return lo, hi, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return n, n, nil
}
