package message_test

import (
	"strings"
	"testing"

	"github.com/easytempinbox/easytempinbox/pkg/message"
)

func TestTruncate(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		limit  int
		marker string
		want   string
	}{
		{
			name:  "zero limit disables truncation",
			body:  "hello world",
			limit: 0,
			want:  "hello world",
		},
		{
			name:  "under limit untouched",
			body:  "hello",
			limit: 10,
			want:  "hello",
		},
		{
			name:  "exactly at limit untouched",
			body:  "hello",
			limit: 5,
			want:  "hello",
		},
		{
			name:   "over limit cut with marker",
			body:   "hello world",
			limit:  5,
			marker: message.TextTruncationNotice,
			want:   "hello" + message.TextTruncationNotice,
		},
		{
			name:   "html marker",
			body:   "<p>content</p>",
			limit:  6,
			marker: message.HTMLTruncationNotice,
			want:   "<p>con" + message.HTMLTruncationNotice,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := message.Truncate(tc.body, tc.limit, tc.marker)
			if got != tc.want {
				t.Errorf("Got: %q, want: %q", got, tc.want)
			}
		})
	}
}

// Markers must self-describe the cut without colliding with the payload
// syntax they terminate.
func TestTruncationNotices(t *testing.T) {
	if !strings.HasPrefix(message.TextTruncationNotice, "\n\n") {
		t.Errorf("Text notice %q should start on its own line", message.TextTruncationNotice)
	}
	if !strings.Contains(message.HTMLTruncationNotice, "<!--") {
		t.Errorf("HTML notice %q should be an HTML comment", message.HTMLTruncationNotice)
	}
}
