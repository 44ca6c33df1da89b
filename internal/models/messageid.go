package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageIDDomain is the fixed domain suffix used in every article
// Message-ID.
const MessageIDDomain = "linux.org.ru"

// TopicMessageID formats the Message-ID for a topic-start article.
func TopicMessageID(topic int64) string {
	return fmt.Sprintf("<lor%d@%s>", topic, MessageIDDomain)
}

// CommentMessageID formats the Message-ID for a comment article.
func CommentMessageID(topic, comment int64) string {
	return fmt.Sprintf("<lor%d.%d@%s>", topic, comment, MessageIDDomain)
}

// ParseMessageID parses a Message-ID of either article form, returning
// the topic and comment IDs (comment is 0 for a topic article). ok is false
// if id does not match the scheme.
func ParseMessageID(id string) (topic int64, comment int64, ok bool) {
	id = strings.TrimSpace(id)
	if !strings.HasPrefix(id, "<lor") || !strings.HasSuffix(id, "@"+MessageIDDomain+">") {
		return 0, 0, false
	}
	inner := id[len("<lor") : len(id)-len("@"+MessageIDDomain+">")]
	if inner == "" {
		return 0, 0, false
	}
	if dot := strings.IndexByte(inner, '.'); dot >= 0 {
		t, err := strconv.ParseInt(inner[:dot], 10, 64)
		if err != nil {
			return 0, 0, false
		}
		c, err := strconv.ParseInt(inner[dot+1:], 10, 64)
		if err != nil {
			return 0, 0, false
		}
		return t, c, true
	}
	t, err := strconv.ParseInt(inner, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return t, 0, true
}

// StorePath formats the "{TOPIC}/{COMMENT}" value stored against an
// article number in the index.
func StorePath(topic, comment int64) string {
	return fmt.Sprintf("%d/%d", topic, comment)
}

// ParseStorePath parses a "{TOPIC}/{COMMENT}" index value.
func ParseStorePath(v string) (topic, comment int64, ok bool) {
	slash := strings.IndexByte(v, '/')
	if slash < 0 {
		return 0, 0, false
	}
	t, err := strconv.ParseInt(v[:slash], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	c, err := strconv.ParseInt(v[slash+1:], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return t, c, true
}
