package mem

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/easytempinbox/easytempinbox/pkg/model"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

func TestStoreInboxRoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	in := &model.Inbox{ID: "abc12345", CreatedAt: 100, ExpiresAt: 3700}
	if err := s.PutInbox(ctx, in); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetInbox(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if *got != *in {
		t.Errorf("Got %+v, want: %+v", got, in)
	}
	// Returned record is a copy, not the stored one.
	got.ExpiresAt = 0
	again, err := s.GetInbox(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if again.ExpiresAt != 3700 {
		t.Errorf("Got ExpiresAt %v after caller mutation, want: 3700", again.ExpiresAt)
	}
}

func TestStoreInboxMissing(t *testing.T) {
	s := NewStore()
	_, err := s.GetInbox(context.Background(), "missing1")
	if !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Got error %v, want: %v", err, storage.ErrNotExist)
	}
}

func TestStoreEmailRoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	email := &model.Email{
		InboxID:     "abc12345",
		EmailID:     "e1",
		FromAddress: "sender@example.com",
		Subject:     "Hello",
		TextBody:    "body",
		ReceivedAt:  200,
	}
	if err := s.PutEmail(ctx, email); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetEmail(ctx, "abc12345", "e1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Subject != "Hello" || got.FromAddress != "sender@example.com" {
		t.Errorf("Got %+v, want stored email", got)
	}
	_, err = s.GetEmail(ctx, "abc12345", "missing")
	if !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Got error %v, want: %v", err, storage.ErrNotExist)
	}
	_, err = s.GetEmail(ctx, "otherbox", "e1")
	if !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Got error %v for wrong inbox, want: %v", err, storage.ErrNotExist)
	}
}

func TestStoreListEmailsPagination(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		err := s.PutEmail(ctx, &model.Email{
			InboxID:    "abc12345",
			EmailID:    fmt.Sprintf("e%d", i),
			ReceivedAt: int64(i),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	assertPage := func(startKey string, wantIDs []string, wantNext string) {
		t.Helper()
		page, next, err := s.ListEmails(ctx, "abc12345", 2, startKey)
		if err != nil {
			t.Fatal(err)
		}
		if len(page) != len(wantIDs) {
			t.Fatalf("Got %v emails, want: %v", len(page), len(wantIDs))
		}
		for i, want := range wantIDs {
			if page[i].EmailID != want {
				t.Errorf("Got page[%d] = %q, want: %q", i, page[i].EmailID, want)
			}
		}
		if next != wantNext {
			t.Errorf("Got next key %q, want: %q", next, wantNext)
		}
	}
	// Newest first, two per page, keyed continuation.
	assertPage("", []string{"e5", "e4"}, "e4")
	assertPage("e4", []string{"e3", "e2"}, "e2")
	assertPage("e2", []string{"e1"}, "")
}

func TestStoreListEmailsUnknownStartKey(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.PutEmail(ctx, &model.Email{InboxID: "abc12345", EmailID: "e1"}); err != nil {
		t.Fatal(err)
	}
	page, next, err := s.ListEmails(ctx, "abc12345", 10, "nothere")
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 0 || next != "" {
		t.Errorf("Got %v emails with next %q, want empty page", len(page), next)
	}
}

func TestStoreCountEmails(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	got, err := s.CountEmails(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("Got count %v, want: 0", got)
	}
	for i := 0; i < 3; i++ {
		err := s.PutEmail(ctx, &model.Email{InboxID: "abc12345", EmailID: fmt.Sprintf("e%d", i)})
		if err != nil {
			t.Fatal(err)
		}
	}
	got, err = s.CountEmails(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("Got count %v, want: 3", got)
	}
}
