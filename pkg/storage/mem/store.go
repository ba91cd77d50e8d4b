// Package mem implements in-memory storage backends for tests and local
// development.
package mem

import (
	"context"
	"sync"

	"github.com/easytempinbox/easytempinbox/pkg/model"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

// Store is an in-memory storage.Store. Emails are held per inbox in arrival
// order.
type Store struct {
	sync.Mutex
	inboxes map[string]*model.Inbox
	emails  map[string][]*model.Email
}

var _ storage.Store = &Store{}

// NewStore returns an empty memory store.
func NewStore() *Store {
	return &Store{
		inboxes: make(map[string]*model.Inbox),
		emails:  make(map[string][]*model.Email),
	}
}

// PutInbox stores an inbox record, overwriting any previous holder of the ID.
func (s *Store) PutInbox(_ context.Context, inbox *model.Inbox) error {
	s.Lock()
	defer s.Unlock()
	cp := *inbox
	s.inboxes[inbox.ID] = &cp
	return nil
}

// GetInbox fetches an inbox record.
func (s *Store) GetInbox(_ context.Context, id string) (*model.Inbox, error) {
	s.Lock()
	defer s.Unlock()
	inbox, ok := s.inboxes[id]
	if !ok {
		return nil, storage.ErrNotExist
	}
	cp := *inbox
	return &cp, nil
}

// PutEmail appends an email record to its inbox.
func (s *Store) PutEmail(_ context.Context, email *model.Email) error {
	s.Lock()
	defer s.Unlock()
	cp := *email
	s.emails[email.InboxID] = append(s.emails[email.InboxID], &cp)
	return nil
}

// GetEmail fetches a single email record.
func (s *Store) GetEmail(_ context.Context, inboxID, emailID string) (*model.Email, error) {
	s.Lock()
	defer s.Unlock()
	for _, e := range s.emails[inboxID] {
		if e.EmailID == emailID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, storage.ErrNotExist
}

// ListEmails returns emails newest first, resuming after exclusiveStartKey
// when given.
func (s *Store) ListEmails(_ context.Context, inboxID string, limit int32, exclusiveStartKey string) ([]*model.Email, string, error) {
	s.Lock()
	defer s.Unlock()
	all := s.emails[inboxID]
	start := len(all) - 1
	if exclusiveStartKey != "" {
		start = -1
		for i := len(all) - 1; i >= 0; i-- {
			if all[i].EmailID == exclusiveStartKey {
				start = i - 1
				break
			}
		}
	}
	var page []*model.Email
	for i := start; i >= 0 && int32(len(page)) < limit; i-- {
		cp := *all[i]
		page = append(page, &cp)
	}
	nextKey := ""
	if n := len(page); n > 0 && start-n >= 0 {
		nextKey = page[n-1].EmailID
	}
	return page, nextKey, nil
}

// CountEmails returns the number of emails held for an inbox.
func (s *Store) CountEmails(_ context.Context, inboxID string) (int, error) {
	s.Lock()
	defer s.Unlock()
	return len(s.emails[inboxID]), nil
}
