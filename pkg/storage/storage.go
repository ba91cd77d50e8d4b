// Package storage defines the durable store and blob store contracts
// implemented by the backend adapters.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/model"
)

// ErrNotExist indicates the requested record does not exist. It is a normal
// outcome, distinct from a store failure; callers check with errors.Is so a
// transport error can never be mistaken for an empty result.
var ErrNotExist = errors.New("record does not exist")

// Store provides access to inbox and email records. Implementations map the
// domain types to their native representation; attribute-level encodings
// never leak out of the adapter.
type Store interface {
	PutInbox(ctx context.Context, inbox *model.Inbox) error
	GetInbox(ctx context.Context, id string) (*model.Inbox, error)
	PutEmail(ctx context.Context, email *model.Email) error
	GetEmail(ctx context.Context, inboxID, emailID string) (*model.Email, error)

	// ListEmails returns up to limit emails for an inbox in reverse
	// chronological order, starting after exclusiveStartKey when non-empty.
	// The second return is the pagination key for the next page, empty when
	// the listing is exhausted.
	ListEmails(ctx context.Context, inboxID string, limit int32, exclusiveStartKey string) ([]*model.Email, string, error)

	CountEmails(ctx context.Context, inboxID string) (int, error)
}

// Blob provides access to binary payloads: raw inbound messages and
// attachment bodies.
type Blob interface {
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, error)

	// PresignGet returns a time-limited download URL for the object,
	// serving it under the given filename.
	PresignGet(ctx context.Context, key, responseFilename string, ttl time.Duration) (string, error)
}
