package models

import "testing"

func TestTopicMessageID(t *testing.T) {
	got := TopicMessageID(12345)
	want := "<lor12345@linux.org.ru>"
	if got != want {
		t.Errorf("TopicMessageID(12345) = %q, want %q", got, want)
	}
}

func TestCommentMessageID(t *testing.T) {
	got := CommentMessageID(12345, 678)
	want := "<lor12345.678@linux.org.ru>"
	if got != want {
		t.Errorf("CommentMessageID(12345, 678) = %q, want %q", got, want)
	}
}

func TestParseMessageID(t *testing.T) {
	tests := []struct {
		id          string
		wantTopic   int64
		wantComment int64
		wantOK      bool
	}{
		{"<lor12345@linux.org.ru>", 12345, 0, true},
		{"<lor12345.678@linux.org.ru>", 12345, 678, true},
		{"<lor99999@linux.org.ru>", 99999, 0, true},
		{"garbage", 0, 0, false},
		{"<lor@linux.org.ru>", 0, 0, false},
		{"<lor12345@example.com>", 0, 0, false},
		{"<lor12345.abc@linux.org.ru>", 0, 0, false},
	}
	for _, tt := range tests {
		topic, comment, ok := ParseMessageID(tt.id)
		if ok != tt.wantOK || topic != tt.wantTopic || comment != tt.wantComment {
			t.Errorf("ParseMessageID(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.id, topic, comment, ok, tt.wantTopic, tt.wantComment, tt.wantOK)
		}
	}
}

func TestMessageIDRoundTrip(t *testing.T) {
	topic, comment := int64(555), int64(77)
	id := CommentMessageID(topic, comment)
	gotTopic, gotComment, ok := ParseMessageID(id)
	if !ok || gotTopic != topic || gotComment != comment {
		t.Errorf("round trip failed: %q -> (%d, %d, %v)", id, gotTopic, gotComment, ok)
	}
}

func TestStorePathRoundTrip(t *testing.T) {
	path := StorePath(42, 9)
	topic, comment, ok := ParseStorePath(path)
	if !ok || topic != 42 || comment != 9 {
		t.Errorf("ParseStorePath(%q) = (%d, %d, %v), want (42, 9, true)", path, topic, comment, ok)
	}
}

func TestParseStorePathMalformed(t *testing.T) {
	if _, _, ok := ParseStorePath("not-a-path"); ok {
		t.Error("expected ok=false for malformed store path")
	}
}
