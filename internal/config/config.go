// Package config provides configuration management for the lord
// gateway: the on-disk root, the newsgroup catalog, and the
// creation-date record.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var AppVersion = "-unset-" // set at build time via -ldflags

const (
	// NNTP protocol constants
	DOT  = "."
	CR   = "\r"
	LF   = "\n"
	CRLF = CR + LF

	// DefaultNNTPPort is the default TCP port lord listens on.
	DefaultNNTPPort = 5119

	// DefaultHTTPTimeout is the default Forum HTTP round-trip timeout.
	DefaultHTTPTimeout = 20 * time.Second

	// ForumBaseURL is the base URL of the Forum.
	ForumBaseURL = "http://www.linux.org.ru"

	// GroupLastmodPageSize is the number of thread entries per lastmod page.
	GroupLastmodPageSize = 30
)

// GatewayConfig holds the on-disk root and derived paths shared by all
// three programs.
type GatewayConfig struct {
	Root           string // e.g. ~/.lornews
	NNTPPort       int
	PostCommand    string // external posting command, defaults to "lorpost"
	StatusAddr     string // optional status endpoint bind address, empty = disabled
	StatusToken    string // optional bearer token for the status endpoint
	HTTPTimeout    time.Duration
	PullDays       int // age (days) beyond which pull walk stops; <0 disables pulling
	ExpireDays     int // age (days) beyond which articles expire; <0 disables, 0 expires all
	PullOffsetSize int
}

// NewDefaultConfig returns a GatewayConfig populated with defaults, rooted
// at $HOME/.lornews.
func NewDefaultConfig() (*GatewayConfig, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return nil, fmt.Errorf("HOME is not set")
	}
	return &GatewayConfig{
		Root:           filepath.Join(home, ".lornews"),
		NNTPPort:       DefaultNNTPPort,
		PostCommand:    "lorpost",
		HTTPTimeout:    DefaultHTTPTimeout,
		PullDays:       3,
		ExpireDays:     -1,
		PullOffsetSize: GroupLastmodPageSize,
	}, nil
}

// CatalogPath returns the path to the newsgroup catalog file.
func (c *GatewayConfig) CatalogPath() string {
	return filepath.Join(c.Root, "groups")
}

// CreationDatePath returns the path to the creation-date record.
func (c *GatewayConfig) CreationDatePath() string {
	return filepath.Join(c.Root, "cdate")
}

// UserDir returns the per-user directory for the given nick.
func (c *GatewayConfig) UserDir(nick string) string {
	return filepath.Join(c.Root, "users", nick)
}

// PasswdPath returns the path to a user's cleartext password file.
func (c *GatewayConfig) PasswdPath(nick string) string {
	return filepath.Join(c.UserDir(nick), "passwd")
}

// CookiesPath returns the path to a user's persisted cookie jar.
func (c *GatewayConfig) CookiesPath(nick string) string {
	return filepath.Join(c.UserDir(nick), "cookies")
}

// GroupDir returns the on-disk directory for a newsgroup, dot-splitting the
// group name into nested directories (lor.forum.talks -> news/lor/forum/talks).
func (c *GatewayConfig) GroupDir(group string) string {
	parts := splitGroup(group)
	segs := append([]string{c.Root, "news"}, parts...)
	return filepath.Join(segs...)
}

func splitGroup(group string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(group); i++ {
		if group[i] == '.' {
			parts = append(parts, group[start:i])
			start = i + 1
		}
	}
	parts = append(parts, group[start:])
	return parts
}
