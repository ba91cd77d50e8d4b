// Package test provides storage stubs with error injection for unit tests.
package test

import (
	"context"
	"strings"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/model"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
	"github.com/easytempinbox/easytempinbox/pkg/storage/mem"
)

// StoreStub wraps the memory store, failing selected operations when an
// injected error is set.
type StoreStub struct {
	*mem.Store

	GetInboxErr    error
	PutEmailErr    error
	CountEmailsErr error
}

var _ storage.Store = &StoreStub{}

// NewStore creates an empty StoreStub.
func NewStore() *StoreStub {
	return &StoreStub{Store: mem.NewStore()}
}

// GetInbox fails with the injected error when set.
func (s *StoreStub) GetInbox(ctx context.Context, id string) (*model.Inbox, error) {
	if s.GetInboxErr != nil {
		return nil, s.GetInboxErr
	}
	return s.Store.GetInbox(ctx, id)
}

// PutEmail fails with the injected error when set.
func (s *StoreStub) PutEmail(ctx context.Context, email *model.Email) error {
	if s.PutEmailErr != nil {
		return s.PutEmailErr
	}
	return s.Store.PutEmail(ctx, email)
}

// CountEmails fails with the injected error when set.
func (s *StoreStub) CountEmails(ctx context.Context, inboxID string) (int, error) {
	if s.CountEmailsErr != nil {
		return 0, s.CountEmailsErr
	}
	return s.Store.CountEmails(ctx, inboxID)
}

// BlobStub wraps the memory blob store, failing selected operations.
type BlobStub struct {
	*mem.Blob

	GetErr error

	// FailPutContaining fails Put for keys containing the substring,
	// for per-attachment failure tests.
	FailPutContaining string
	FailPutErr        error
}

var _ storage.Blob = &BlobStub{}

// NewBlob creates an empty BlobStub.
func NewBlob() *BlobStub {
	return &BlobStub{Blob: mem.NewBlob()}
}

// Put fails for matching keys when failure injection is configured.
func (b *BlobStub) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if b.FailPutContaining != "" && strings.Contains(key, b.FailPutContaining) {
		return b.FailPutErr
	}
	return b.Blob.Put(ctx, key, data, contentType, metadata)
}

// Get fails with the injected error when set.
func (b *BlobStub) Get(ctx context.Context, key string) ([]byte, error) {
	if b.GetErr != nil {
		return nil, b.GetErr
	}
	return b.Blob.Get(ctx, key)
}

// AddInbox stores an inbox with the given lifetime relative to now; negative
// ttl produces an already expired inbox.
func (s *StoreStub) AddInbox(id string, ttl time.Duration) *model.Inbox {
	now := time.Now().Unix()
	inbox := &model.Inbox{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now + int64(ttl.Seconds()),
	}
	_ = s.Store.PutInbox(context.Background(), inbox)
	return inbox
}
