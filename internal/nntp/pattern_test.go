package nntp

import "testing"

func TestMatchPatternBasic(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"lor.forum.talks", "lor.forum.talks", true},
		{"lor.forum.talks", "lor.forum.*", true},
		{"lor.news.talks", "lor.forum.*", false},
		{"lor.forum.talks", "lor.*.talks", true},
		{"lor.forum.talks", "!lor.forum.talks", false},
		{"lor.forum.other", "!lor.forum.talks,*", true},
		{"lor.forum.talks", "!lor.forum.talks,*", false},
		{"lor.a", "lor.?", true},
		{"lor.ab", "lor.?", false},
	}
	for _, tt := range tests {
		got, err := MatchPattern(tt.name, tt.pattern)
		if err != nil {
			t.Fatalf("MatchPattern(%q, %q) error: %v", tt.name, tt.pattern, err)
		}
		if got != tt.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestMatchPatternInvalid(t *testing.T) {
	tests := []string{"", "!", ",", "a,,b"}
	for _, p := range tests {
		if _, err := MatchPattern("lor.forum.talks", p); err == nil {
			t.Errorf("MatchPattern(_, %q) expected error, got nil", p)
		}
	}
}

func TestMatchPatternShortCircuitsInOrder(t *testing.T) {
	// First matching item wins, regardless of polarity of later items.
	got, err := MatchPattern("lor.forum.talks", "lor.forum.talks,!lor.forum.talks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected first item's positive polarity to win")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		s          string
		defLo      int64
		defHi      int64
		wantLo     int64
		wantHi     int64
		wantErr    bool
	}{
		{"", 1, 10, 1, 10, false},
		{"5", 1, 10, 5, 5, false},
		{"5-", 1, 10, 5, 10, false},
		{"5-8", 1, 10, 5, 8, false},
		{"abc", 1, 10, 0, 0, true},
	}
	for _, tt := range tests {
		lo, hi, err := parseRange(tt.s, tt.defLo, tt.defHi)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRange(%q) error = %v, wantErr %v", tt.s, err, tt.wantErr)
			continue
		}
		if err == nil && (lo != tt.wantLo || hi != tt.wantHi) {
			t.Errorf("parseRange(%q) = (%d, %d), want (%d, %d)", tt.s, lo, hi, tt.wantLo, tt.wantHi)
		}
	}
}
