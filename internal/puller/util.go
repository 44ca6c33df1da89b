package puller

import (
	"bytes"
	"io"
	"strings"
	"time"
)

func newBodyReader(body []byte) io.Reader {
	return bytes.NewReader(body)
}

// parseAge converts a Forum-rendered age string ("сегодня 14:32",
// "вчера 09:10", or "02.01.2006") to an absolute time, used to decide
// whether the pull window has been exhausted. Unparseable strings are
// treated as "now", so the walk continues rather than terminating early.
func parseAge(s string) time.Time {
	s = strings.TrimSpace(s)
	now := time.Now().UTC()

	if rest, ok := cutPrefix(s, "сегодня"); ok {
		if t, err := time.Parse("15:04", strings.TrimSpace(rest)); err == nil {
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		}
		return now
	}
	if rest, ok := cutPrefix(s, "вчера"); ok {
		y := now.AddDate(0, 0, -1)
		if t, err := time.Parse("15:04", strings.TrimSpace(rest)); err == nil {
			return time.Date(y.Year(), y.Month(), y.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		}
		return y
	}
	if t, err := time.Parse("02.01.2006 15:04", s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t.UTC()
	}
	return now
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
