// Package models holds the shared record types passed between the store,
// the puller, the poster, and the NNTP server.
package models

import "time"

// Newsgroup is one line of the catalog.
type Newsgroup struct {
	Name        string
	ForumID     int64
	Description string
}

// Article is a fully-formed NNTP article as read from or written to the
// store.
type Article struct {
	MessageID  string
	Newsgroups string
	Subject    string
	From       string
	Date       time.Time
	Injected   time.Time // when the article entered the store; zero means "now" at append
	References string    // parent references, space-separated, outermost first

	Keywords     string
	XLinkURL     string
	XLinkText    string
	XImageURL    string
	XVoteURL     string
	XModerator   string
	XModDate     string
	XStars       string

	Body string // UTF-8, LF line endings

	// The Forum thread/comment this article represents. AppendArticle
	// takes these as separate arguments and does not fill them in.
	Topic   int64
	Comment int64 // 0 for a topic article
}

// Overview is the tab-separated summary record for one article number.
type Overview struct {
	ArticleNum int64
	Subject    string
	From       string
	Date       string
	MessageID  string
	References string
	Bytes      int64
	Lines      int64
	XStars     string
}
