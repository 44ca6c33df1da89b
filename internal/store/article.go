package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lornews/lord/internal/models"
)

// RenderArticle serializes art into the RFC-5322-style text persisted as
// the article file, with the required headers in a fixed order.
func RenderArticle(art *models.Article) string {
	var b strings.Builder
	writeHeader := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	writeHeader("Newsgroups", art.Newsgroups)
	writeHeader("Subject", art.Subject)
	writeHeader("From", art.From)
	writeHeader("Date", art.Date.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0000"))
	writeHeader("Message-ID", art.MessageID)
	writeHeader("References", art.References)
	b.WriteString("MIME-Version: 1.0\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\n")
	injected := art.Injected
	if injected.IsZero() {
		injected = art.Date
	}
	writeHeader("Injection-Date", injected.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0000"))
	b.WriteString("Path: linux.org.ru!not-for-mail\n")

	writeHeader("Keywords", art.Keywords)
	writeHeader("X-Link-URL", art.XLinkURL)
	writeHeader("X-Link-Text", art.XLinkText)
	writeHeader("X-Image-URL", art.XImageURL)
	writeHeader("X-Vote-URL", art.XVoteURL)
	writeHeader("X-Moderator", art.XModerator)
	writeHeader("X-Moderation-Date", art.XModDate)
	writeHeader("X-Stars", art.XStars)

	b.WriteString("\n")
	b.WriteString(art.Body)
	return b.String()
}

// ArticlePath returns the on-disk path for an article file,
// "<root>/news/<g1>/<g2>/.../<TOPIC>/<N>".
func (s *Store) ArticlePath(group string, topic, num int64) string {
	return filepath.Join(s.cfg.GroupDir(group), strconv.FormatInt(topic, 10), strconv.FormatInt(num, 10))
}

// ReadArticleFile reads the raw article text of article number num under
// topic. Articles are stored at <topic-dir>/<article-number>, so the
// comment ID is not needed to find the file.
func (s *Store) ReadArticleFile(group string, topic, num int64) (string, error) {
	path := s.ArticlePath(group, topic, num)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read article %s: %w", path, err)
	}
	return string(data), nil
}

func writeArticleFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create topic dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write article %s: %w", path, err)
	}
	return nil
}
