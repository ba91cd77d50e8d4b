// Package model defines the domain records shared by the pipeline, storage
// adapters and the REST layer.
package model

import (
	"crypto/rand"
	"time"
)

// idAlphabet holds the symbols used in generated inbox IDs.
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Inbox is a time-boxed mail destination. Records are immutable after
// creation; expiry is purely a function of ExpiresAt.
type Inbox struct {
	ID        string
	CreatedAt int64 // epoch seconds
	ExpiresAt int64 // epoch seconds
}

// NewInbox creates an Inbox with a fresh random ID expiring ttl from now.
func NewInbox(idLength int, ttl time.Duration, now time.Time) *Inbox {
	created := now.Unix()
	return &Inbox{
		ID:        NewInboxID(idLength),
		CreatedAt: created,
		ExpiresAt: created + int64(ttl.Seconds()),
	}
}

// NewInboxID generates a random lowercase alphanumeric inbox ID. Uniqueness
// is probabilistic; there is no collision check against existing inboxes.
func NewInboxID(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// rand.Read only fails if the OS entropy source is broken.
		panic(err)
	}
	for i, c := range b {
		b[i] = idAlphabet[int(c)%len(idAlphabet)]
	}
	return string(b)
}

// Expired reports whether the inbox lifetime has passed. An expired inbox is
// treated as absent by all readers, even if the record is still stored.
func (in *Inbox) Expired(now time.Time) bool {
	return now.Unix() > in.ExpiresAt
}

// Address renders the full mail address for this inbox on the given domain.
func (in *Inbox) Address(domain string) string {
	return in.ID + "@" + domain
}
