package puller

import (
	"strings"
	"testing"
	"time"
)

const lastmodPageFixture = `
<html><body>
<table>
<tr class="topic">
  <td><a class="topic-link" href="/forum/talks/123456">A thread</a></td>
  <td class="pages-count">3</td>
  <td class="date">сегодня 14:32</td>
</tr>
<tr class="topic">
  <td><a class="topic-link" href="/forum/talks/654321">Clipped thread</a><span class="clipped-icon"></span></td>
  <td class="pages-count"></td>
  <td class="date">вчера 09:10</td>
</tr>
</table>
</body></html>
`

func TestParseLastmodPage(t *testing.T) {
	refs, err := ParseLastmodPage(strings.NewReader(lastmodPageFixture))
	if err != nil {
		t.Fatalf("ParseLastmodPage: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Topic != 123456 || refs[0].CommentPages != 3 || refs[0].Clipped {
		t.Errorf("refs[0] = %+v, unexpected", refs[0])
	}
	if refs[1].Topic != 654321 || refs[1].CommentPages != 1 || !refs[1].Clipped {
		t.Errorf("refs[1] = %+v, unexpected", refs[1])
	}
}

func TestParseLastmodPageIgnoresMalformedHref(t *testing.T) {
	html := `<table><tr class="topic"><td><a class="topic-link" href="/forum/talks/">bad</a></td></tr></table>`
	refs, err := ParseLastmodPage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseLastmodPage: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("got %d refs for malformed href, want 0", len(refs))
	}
}

const threadPageFixture = `
<html><body>
<h1 class="topic-title">Thread subject</h1>
<div class="topic-author">opuser</div>
<div class="topic-date">28.07.2026 10:00</div>
<div class="topic-stars">***</div>
<div class="topic-body"><p>Opening post text</p></div>

<div class="msg" id="comment-111">
  <div class="msg-author">commenter-one</div>
  <div class="msg-date">28.07.2026 11:15</div>
  <div class="msg-subject">Re: Thread subject</div>
  <div class="msg-body"><p>First reply</p></div>
</div>
<div class="msg banned" id="comment-222">
  <div class="msg-author">commenter-two</div>
  <a class="reply-to" href="/forum/talks/1?cid=111#comment-111"></a>
  <div class="msg-date">28.07.2026 12:00</div>
  <div class="msg-subject">Re: Thread subject</div>
  <div class="msg-body"><p>Second reply, banned</p></div>
</div>
</body></html>
`

func TestParseThreadPageFirstPage(t *testing.T) {
	pt, err := ParseThreadPage(1, strings.NewReader(threadPageFixture), true)
	if err != nil {
		t.Fatalf("ParseThreadPage: %v", err)
	}
	if pt.Subject != "Thread subject" {
		t.Errorf("Subject = %q", pt.Subject)
	}
	if len(pt.Messages) != 3 {
		t.Fatalf("got %d messages, want 3 (topic-start + 2 comments)", len(pt.Messages))
	}

	topicMsg := pt.Messages[0]
	if topicMsg.CommentID != 0 || topicMsg.Author != "opuser" {
		t.Errorf("topic-start message = %+v, unexpected", topicMsg)
	}

	first := pt.Messages[1]
	if first.CommentID != 111 || first.InReplyTo != 0 {
		t.Errorf("first comment = %+v, unexpected", first)
	}

	second := pt.Messages[2]
	if second.CommentID != 222 || second.InReplyTo != 111 || !second.Banned {
		t.Errorf("second comment = %+v, unexpected", second)
	}
}

func TestParseThreadPageNonFirstPageSkipsTopicStart(t *testing.T) {
	pt, err := ParseThreadPage(1, strings.NewReader(threadPageFixture), false)
	if err != nil {
		t.Fatalf("ParseThreadPage: %v", err)
	}
	if len(pt.Messages) != 2 {
		t.Fatalf("got %d messages, want 2 (comments only)", len(pt.Messages))
	}
	if pt.Messages[0].CommentID != 111 {
		t.Errorf("Messages[0].CommentID = %d, want 111", pt.Messages[0].CommentID)
	}
}

func TestParseAgeToday(t *testing.T) {
	now := time.Now().UTC()
	got := parseAge("сегодня 14:32")
	if got.Year() != now.Year() || got.Month() != now.Month() || got.Day() != now.Day() {
		t.Errorf("parseAge(today) date = %v, want today (%v)", got, now)
	}
	if got.Hour() != 14 || got.Minute() != 32 {
		t.Errorf("parseAge(today) time = %02d:%02d, want 14:32", got.Hour(), got.Minute())
	}
}

func TestParseAgeYesterday(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	got := parseAge("вчера 09:10")
	if got.Year() != yesterday.Year() || got.Month() != yesterday.Month() || got.Day() != yesterday.Day() {
		t.Errorf("parseAge(yesterday) date = %v, want %v", got, yesterday)
	}
	if got.Hour() != 9 || got.Minute() != 10 {
		t.Errorf("parseAge(yesterday) time = %02d:%02d, want 09:10", got.Hour(), got.Minute())
	}
}

func TestParseAgeAbsoluteDate(t *testing.T) {
	got := parseAge("14.03.2024 09:26")
	want := time.Date(2024, 3, 14, 9, 26, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseAge(absolute) = %v, want %v", got, want)
	}
}

func TestParseAgeDateOnly(t *testing.T) {
	got := parseAge("14.03.2024")
	want := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseAge(date only) = %v, want %v", got, want)
	}
}
