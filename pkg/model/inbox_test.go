package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/model"
)

func TestNewInboxID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := model.NewInboxID(8)
		if len(id) != 8 {
			t.Fatalf("Got ID length %v, want: 8", len(id))
		}
		for _, c := range id {
			if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyz0123456789", c) {
				t.Fatalf("Got ID %q with character %q outside the alphabet", id, c)
			}
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("Got %v distinct IDs out of 100, want randomness", len(seen))
	}
}

func TestInboxExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	testCases := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{name: "future", expiresAt: 2000, want: false},
		{name: "exactly now", expiresAt: 1000, want: false},
		{name: "past", expiresAt: 999, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := &model.Inbox{ID: "abc12345", ExpiresAt: tc.expiresAt}
			if got := in.Expired(now); got != tc.want {
				t.Errorf("Got %v, want: %v", got, tc.want)
			}
		})
	}
}

func TestNewInbox(t *testing.T) {
	now := time.Unix(5000, 0)
	in := model.NewInbox(8, time.Hour, now)
	if len(in.ID) != 8 {
		t.Errorf("Got ID %q, want 8 characters", in.ID)
	}
	if in.CreatedAt != 5000 {
		t.Errorf("Got CreatedAt %v, want: 5000", in.CreatedAt)
	}
	if in.ExpiresAt != 5000+3600 {
		t.Errorf("Got ExpiresAt %v, want: %v", in.ExpiresAt, 5000+3600)
	}
	want := in.ID + "@easytempinbox.com"
	if got := in.Address("easytempinbox.com"); got != want {
		t.Errorf("Got address %q, want: %q", got, want)
	}
}

func TestAttachmentKey(t *testing.T) {
	got := model.AttachmentKey("abc12345", "e1", "a1", "notes.txt")
	want := "attachments/abc12345/e1/a1/notes.txt"
	if got != want {
		t.Errorf("Got %q, want: %q", got, want)
	}
}
