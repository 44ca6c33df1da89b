package nntp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lornews/lord/internal/models"
	"github.com/lornews/lord/internal/store"
)

// overviewFormatLines is the fixed 7-field (plus X-Stars) listing
// returned by LIST OVERVIEW.FMT.
var overviewFormatLines = []string{
	"Subject:",
	"From:",
	"Date:",
	"Message-ID:",
	"References:",
	"Bytes:",
	"Lines:",
	"X-Stars:full",
}

// cmdList implements LIST [ACTIVE|NEWSGROUPS [pattern]] and
// LIST OVERVIEW.FMT.
func (c *clientConn) cmdList(args []string) error {
	if len(args) == 0 {
		return c.listActive("")
	}

	keyword := strings.ToUpper(args[0])
	switch keyword {
	case "OVERVIEW.FMT":
		if len(args) != 1 {
			return c.sendResponse(501, "Bad syntax")
		}
		return c.sendMultilineResponse(215, "Order of fields in overview database", overviewFormatLines)
	case "ACTIVE":
		if len(args) > 2 {
			return c.sendResponse(501, "Bad syntax")
		}
		pattern := ""
		if len(args) == 2 {
			pattern = args[1]
		}
		return c.listActive(pattern)
	case "NEWSGROUPS":
		if len(args) > 2 {
			return c.sendResponse(501, "Bad syntax")
		}
		pattern := ""
		if len(args) == 2 {
			pattern = args[1]
		}
		return c.listNewsgroups(pattern)
	default:
		return c.sendResponse(501, "Bad syntax")
	}
}

func (c *clientConn) listActive(pattern string) error {
	groups, err := c.server.Cfg.LoadCatalog()
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	var lines []string
	for _, g := range groups {
		if pattern != "" {
			matched, merr := MatchPattern(g.Name, pattern)
			if merr != nil {
				return c.sendResponse(501, "Bad syntax")
			}
			if !matched {
				continue
			}
		}
		_, min, max, serr := c.statusFor(g.Name)
		if serr != nil {
			return serr
		}
		lines = append(lines, fmt.Sprintf("%s %d %d y", g.Name, max, min))
	}
	return c.sendMultilineResponse(215, "list of newsgroups follows", lines)
}

func (c *clientConn) listNewsgroups(pattern string) error {
	groups, err := c.server.Cfg.LoadCatalog()
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	var lines []string
	for _, g := range groups {
		if pattern != "" {
			matched, merr := MatchPattern(g.Name, pattern)
			if merr != nil {
				return c.sendResponse(501, "Bad syntax")
			}
			if !matched {
				continue
			}
		}
		lines = append(lines, fmt.Sprintf("%s\t%s", g.Name, g.Description))
	}
	return c.sendMultilineResponse(215, "list of newsgroups follows", lines)
}

// statusFor opens group read-only just to read its {count,min,max}
// triple, used by LIST ACTIVE and NEWGROUPS. Callers have already
// established catalog membership, so a group whose index has not been
// created yet reads as empty; only a store-integrity error propagates.
func (c *clientConn) statusFor(group string) (count, min, max int64, err error) {
	gi, oerr := c.server.Store.OpenGroupIndex(group, store.ReadOnly)
	if oerr != nil {
		var ie *store.IntegrityError
		if errors.As(oerr, &ie) {
			return 0, 0, 0, oerr
		}
		return 0, 1, 0, nil
	}
	defer gi.Close()
	return gi.Status()
}

// cmdNewgroups implements NEWGROUPS yymmdd hhmmss [GMT]. The gate is
// "the install's creation-date is >= the query time"; since the
// catalog has one creation date for the whole install, the response is
// either every group (if the gate passes) or none.
func (c *clientConn) cmdNewgroups(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return c.sendResponse(501, "Bad syntax")
	}
	query, err := parseDateTimeArgs(args[0], args[1])
	if err != nil {
		return c.sendResponse(501, "Bad syntax")
	}

	created, err := c.server.Cfg.LoadCreationDate()
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	var lines []string
	if !created.Before(query) {
		groups, gerr := c.server.Cfg.LoadCatalog()
		if gerr != nil {
			return c.sendResponse(503, "Internal error")
		}
		for _, g := range groups {
			_, min, max, serr := c.statusFor(g.Name)
			if serr != nil {
				return serr
			}
			lines = append(lines, fmt.Sprintf("%s %d %d y", g.Name, max, min))
		}
	}
	return c.sendMultilineResponse(231, "list of new newsgroups follows", lines)
}

// cmdNewnews implements NEWNEWS pattern yymmdd hhmmss [GMT]:
// all message-IDs across matching groups whose injection timestamp is
// >= the query time.
func (c *clientConn) cmdNewnews(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return c.sendResponse(501, "Bad syntax")
	}
	pattern := args[0]
	query, err := parseDateTimeArgs(args[1], args[2])
	if err != nil {
		return c.sendResponse(501, "Bad syntax")
	}

	groups, err := c.server.Cfg.LoadCatalog()
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	var lines []string
	for _, g := range groups {
		matched, merr := MatchPattern(g.Name, pattern)
		if merr != nil {
			return c.sendResponse(501, "Bad syntax")
		}
		if !matched {
			continue
		}
		lines = append(lines, c.newNewsIDsInGroup(g.Name, query)...)
	}
	return c.sendMultilineResponse(230, "list of new articles follows", lines)
}

func (c *clientConn) newNewsIDsInGroup(group string, query time.Time) []string {
	gi, err := c.server.Store.OpenGroupIndex(group, store.ReadOnly)
	if err != nil {
		return nil
	}
	defer gi.Close()

	_, min, max, err := gi.Status()
	if err != nil {
		return nil
	}

	var ids []string
	for n := min; n <= max; n++ {
		ts, ok, terr := gi.LookupTimestamp(n)
		if terr != nil || !ok || ts.Before(query) {
			continue
		}
		topic, comment, ok, lerr := gi.LookupByNumber(n)
		if lerr != nil || !ok {
			continue
		}
		if comment == 0 {
			ids = append(ids, models.TopicMessageID(topic))
		} else {
			ids = append(ids, models.CommentMessageID(topic, comment))
		}
	}
	return ids
}

// cmdOver implements OVER/XOVER [range].
func (c *clientConn) cmdOver(args []string) error {
	if len(args) == 1 && strings.HasPrefix(args[0], "<") {
		return c.sendResponse(503, "Overview by message-id unsupported")
	}
	if len(args) > 1 {
		return c.sendResponse(501, "Bad syntax")
	}
	if c.currentGroup == "" {
		return c.sendResponse(412, "No newsgroup selected")
	}

	gi, oerr := c.server.Store.OpenGroupIndex(c.currentGroup, store.ReadOnly)
	if oerr != nil {
		var ie *store.IntegrityError
		if errors.As(oerr, &ie) {
			return oerr
		}
		// Selected group with no index yet: an empty overview.
		return c.sendMultilineResponse(224, "Overview information follows", nil)
	}
	defer gi.Close()

	_, min, max, err := gi.Status()
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	rangeArg := ""
	if len(args) == 1 {
		rangeArg = args[0]
	}
	lo, hi, err := parseRange(rangeArg, min, max)
	if err != nil {
		return c.sendResponse(501, "Bad syntax")
	}

	nums, err := gi.Scan(lo, hi)
	if err != nil {
		return c.sendResponse(503, "Internal error")
	}

	lines := make([]string, 0, len(nums))
	for _, n := range nums {
		ov, ok, oerr := gi.LookupOverview(n)
		if oerr != nil || !ok {
			continue
		}
		lines = append(lines, strconv.FormatInt(n, 10)+"\t"+overviewFields(ov))
	}
	return c.sendMultilineResponse(224, "Overview information follows", lines)
}

// overviewFields renders an overview record's tab-separated fields for
// an OVER/XOVER line (the leading article number is prepended by
// the caller).
func overviewFields(ov *models.Overview) string {
	stars := ""
	if ov.XStars != "" {
		stars = "X-Stars: " + ov.XStars
	}
	fields := []string{
		ov.Subject,
		ov.From,
		ov.Date,
		ov.MessageID,
		ov.References,
		strconv.FormatInt(ov.Bytes, 10),
		strconv.FormatInt(ov.Lines, 10),
		stars,
	}
	return strings.Join(fields, "\t")
}

// parseDateTimeArgs parses the NNTP "yymmdd hhmmss [GMT]" argument pair
// shared by NEWGROUPS/NEWNEWS. Per RFC 3977, a two-digit year < 70 means
// 20xx, otherwise 19xx; this Forum gateway was never live before 2000,
// so in practice the 20xx branch is the only one ever taken.
func parseDateTimeArgs(dateArg, timeArg string) (time.Time, error) {
	if len(dateArg) != 6 || len(timeArg) != 6 {
		return time.Time{}, fmt.Errorf("malformed date/time arguments %q %q", dateArg, timeArg)
	}
	yy, err := strconv.Atoi(dateArg[0:2])
	if err != nil {
		return time.Time{}, err
	}
	year := 1900 + yy
	if yy < 70 {
		year = 2000 + yy
	}
	month, err := strconv.Atoi(dateArg[2:4])
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.Atoi(dateArg[4:6])
	if err != nil {
		return time.Time{}, err
	}
	hour, err := strconv.Atoi(timeArg[0:2])
	if err != nil {
		return time.Time{}, err
	}
	minute, err := strconv.Atoi(timeArg[2:4])
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.Atoi(timeArg[4:6])
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC), nil
}
