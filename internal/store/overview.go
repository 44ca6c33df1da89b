package store

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/lornews/lord/internal/models"
)

// wordEncoder produces RFC 2047 encoded-words for header fields that may
// carry non-ASCII (Cyrillic) text: "Stored MIME-header-encoded".
var wordEncoder = mime.QEncoding

// BuildOverview constructs the overview record for a freshly appended
// article.
func BuildOverview(art *models.Article, num int64, byteLen int64) *models.Overview {
	lines := strings.Count(art.Body, "\n")
	if art.Body != "" && !strings.HasSuffix(art.Body, "\n") {
		lines++
	}
	return &models.Overview{
		ArticleNum: num,
		Subject:    art.Subject,
		From:       art.From,
		Date:       art.Date.UTC().Format("02 Jan 2006 15:04:05 -0000"),
		MessageID:  art.MessageID,
		References: art.References,
		Bytes:      byteLen,
		Lines:      int64(lines),
		XStars:     art.XStars,
	}
}

// MarshalOverview renders ov as the tab-separated, MIME-header-encoded
// on-disk record.
func MarshalOverview(ov *models.Overview) string {
	fields := []string{
		wordEncoder.Encode("UTF-8", ov.Subject),
		wordEncoder.Encode("UTF-8", ov.From),
		ov.Date,
		ov.MessageID,
		ov.References,
		"X-Stars: " + ov.XStars,
		strconv.FormatInt(ov.Bytes, 10),
		strconv.FormatInt(ov.Lines, 10),
	}
	return strings.Join(fields, "\t")
}

var headerDecoder = new(mime.WordDecoder)

// UnmarshalOverview parses the on-disk tab-separated record and decodes
// any RFC 2047 encoded-words, yielding the same Overview an NNTP OVER
// response transmits.
func UnmarshalOverview(num int64, raw string) (*models.Overview, error) {
	parts := strings.Split(raw, "\t")
	if len(parts) != 8 {
		return nil, fmt.Errorf("malformed overview record (want 8 fields, got %d)", len(parts))
	}
	bytesLen, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed overview byte count: %w", err)
	}
	lines, err := strconv.ParseInt(parts[7], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed overview line count: %w", err)
	}
	return &models.Overview{
		ArticleNum: num,
		Subject:    decodeHeaderWord(parts[0]),
		From:       decodeHeaderWord(parts[1]),
		Date:       parts[2],
		MessageID:  parts[3],
		References: parts[4],
		XStars:     strings.TrimSpace(strings.TrimPrefix(parts[5], "X-Stars:")),
		Bytes:      bytesLen,
		Lines:      lines,
	}, nil
}

func decodeHeaderWord(s string) string {
	decoded, err := headerDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}
