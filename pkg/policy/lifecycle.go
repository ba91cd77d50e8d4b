package policy

import (
	"context"
	"errors"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

// Lifecycle answers inbox activity and quota questions for the ingestion
// pipeline and the REST layer.
type Lifecycle struct {
	Store storage.Store
	Quota int // maximum emails retained per inbox

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

func (l *Lifecycle) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// IsActive reports whether the inbox exists and has not expired. A missing
// record and an expired record are the same answer; only a store failure is
// an error.
func (l *Lifecycle) IsActive(ctx context.Context, inboxID string) (bool, error) {
	inbox, err := l.Store.GetInbox(ctx, inboxID)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !inbox.Expired(l.now()), nil
}

// CountEmails returns the current email count for an inbox.
func (l *Lifecycle) CountEmails(ctx context.Context, inboxID string) (int, error) {
	return l.Store.CountEmails(ctx, inboxID)
}

// UnderQuota reports whether the inbox can accept another email. The count
// and the subsequent write are not atomic; concurrent deliveries may
// overshoot the quota by a bounded amount, which is accepted rather than
// paying for a distributed lock.
func (l *Lifecycle) UnderQuota(ctx context.Context, inboxID string) (bool, error) {
	n, err := l.Store.CountEmails(ctx, inboxID)
	if err != nil {
		return false, err
	}
	return n < l.Quota, nil
}
