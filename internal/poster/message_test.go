package poster

import (
	"strings"
	"testing"
)

func TestParseValidTopicMessage(t *testing.T) {
	raw := "From: nick@forum.linux.org.ru\r\n" +
		"Newsgroups: lor.forum.talks\r\n" +
		"Subject: A new topic\r\n" +
		"\r\n" +
		"body text\r\n"

	pm, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pm.Newsgroup != "lor.forum.talks" || pm.Subject != "A new topic" {
		t.Errorf("pm = %+v, unexpected", pm)
	}
	if pm.Topic != 0 || pm.ReplyTo != 0 {
		t.Errorf("expected zero Topic/ReplyTo for a topic-start post, got %d/%d", pm.Topic, pm.ReplyTo)
	}
}

func TestParseCommentMessageResolvesReferences(t *testing.T) {
	raw := "From: nick@forum.linux.org.ru\r\n" +
		"Newsgroups: lor.forum.talks\r\n" +
		"Subject: Re: A new topic\r\n" +
		"References: <lor12345@linux.org.ru> <lor12345.678@linux.org.ru>\r\n" +
		"\r\n" +
		"reply text\r\n"

	pm, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pm.Topic != 12345 || pm.ReplyTo != 678 {
		t.Errorf("Topic/ReplyTo = %d/%d, want 12345/678", pm.Topic, pm.ReplyTo)
	}
}

func TestParseRejectsAnonymous(t *testing.T) {
	raw := "From: anonymous\r\n" +
		"Newsgroups: lor.forum.talks\r\n" +
		"Subject: x\r\n\r\nbody\r\n"
	if _, err := Parse(strings.NewReader(raw)); err == nil {
		t.Error("expected error for anonymous From")
	}
}

func TestParseRejectsMultipleNewsgroups(t *testing.T) {
	raw := "From: nick@forum.linux.org.ru\r\n" +
		"Newsgroups: lor.forum.talks,lor.news\r\n" +
		"Subject: x\r\n\r\nbody\r\n"
	if _, err := Parse(strings.NewReader(raw)); err == nil {
		t.Error("expected error for multiple newsgroups")
	}
}

func TestParseRejectsMissingSubject(t *testing.T) {
	raw := "From: nick@forum.linux.org.ru\r\n" +
		"Newsgroups: lor.forum.talks\r\n\r\nbody\r\n"
	if _, err := Parse(strings.NewReader(raw)); err == nil {
		t.Error("expected error for missing Subject")
	}
}

func TestParseRejectsMalformedReferences(t *testing.T) {
	raw := "From: nick@forum.linux.org.ru\r\n" +
		"Newsgroups: lor.forum.talks\r\n" +
		"Subject: x\r\n" +
		"References: <garbage>\r\n\r\nbody\r\n"
	if _, err := Parse(strings.NewReader(raw)); err == nil {
		t.Error("expected error for malformed References message-id")
	}
}
