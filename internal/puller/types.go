// Package puller walks the Forum's group-lastmod listing, parses thread
// and comment pages, and writes the resulting articles through
// internal/store.
package puller

import "time"

// ThreadRef is one row of a group-lastmod.jsp page.
type ThreadRef struct {
	Topic        int64
	CommentPages int
	Clipped      bool
	Age          string
}

// ParsedMessage is one comment (or the topic-start message) extracted
// from a thread page.
type ParsedMessage struct {
	CommentID int64 // 0 for the topic-start message
	InReplyTo int64 // 0 if top-level
	Author    string
	Banned    bool
	Stars     string
	Date      time.Time
	Subject   string
	BodyNode  bodyNode
}

// ParsedThread is the result of parsing one thread's comment pages.
type ParsedThread struct {
	Topic    int64
	Subject  string
	Messages []ParsedMessage
}
