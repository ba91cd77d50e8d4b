// Package ingest orchestrates processing of inbound messages: decode, route,
// quota check, sanitize, persist.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/easytempinbox/easytempinbox/pkg/message"
	"github.com/easytempinbox/easytempinbox/pkg/model"
	"github.com/easytempinbox/easytempinbox/pkg/policy"
	"github.com/easytempinbox/easytempinbox/pkg/sanitize"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

// Outcome is the terminal state of one pipeline invocation.
type Outcome int

// Pipeline terminal states. Discarded and both Dropped outcomes are normal;
// OutcomeFailed accompanies a non-nil error, meaning a downstream store was
// unreachable and the delivery may be retried.
const (
	OutcomeFailed          Outcome = iota // store failure, not terminal
	OutcomePersisted                      // email record written
	OutcomeDiscarded                      // raw bytes unparseable, no retry
	OutcomeDroppedInactive                // inbox unknown or expired
	OutcomeDroppedQuota                   // inbox at message quota
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomePersisted:
		return "persisted"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeDroppedInactive:
		return "dropped-inactive"
	case OutcomeDroppedQuota:
		return "dropped-quota"
	}
	return fmt.Sprintf("unknown(%d)", int(o))
}

// Pipeline ingests raw messages staged in blob storage. Each invocation is
// independent and stateless; correctness does not depend on ordering between
// concurrent invocations.
type Pipeline struct {
	Store     storage.Store
	Blob      storage.Blob
	Lifecycle *policy.Lifecycle

	MaxTextBody int // text body byte ceiling
	MaxHTMLBody int // HTML body byte ceiling

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Process ingests the raw message stored under key. Attachment blobs are
// written before the email record, so metadata never references a missing
// blob. A non-nil error means a downstream store failed and the delivery may
// be retried; every other result is terminal.
func (p *Pipeline) Process(ctx context.Context, key string) (Outcome, error) {
	logger := log.With().Str("module", "ingest").Str("key", key).Logger()

	raw, err := p.Blob.Get(ctx, key)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fetch raw message: %w", err)
	}

	// Decoded.
	decoded, err := message.Decode(raw)
	if err != nil {
		logger.Error().Err(err).Msg("Unparseable message discarded")
		return OutcomeDiscarded, nil
	}

	// Routed.
	inboxID := policy.ExtractInboxID(decoded.To)
	logger = logger.With().Str("inbox", inboxID).Logger()
	active, err := p.Lifecycle.IsActive(ctx, inboxID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("check inbox %v: %w", inboxID, err)
	}
	if !active {
		logger.Info().Msg("Inbox unknown or expired, dropping message")
		return OutcomeDroppedInactive, nil
	}

	// QuotaChecked.
	under, err := p.Lifecycle.UnderQuota(ctx, inboxID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("check quota for %v: %w", inboxID, err)
	}
	if !under {
		logger.Info().Int("quota", p.Lifecycle.Quota).Msg("Inbox at quota, dropping message")
		return OutcomeDroppedQuota, nil
	}

	// Sanitized. The HTML ceiling bounds the sanitized payload, so truncate
	// after sanitizing.
	htmlBody := decoded.HTMLBody
	if htmlBody != "" {
		htmlBody, err = sanitize.HTML(htmlBody)
		if err != nil {
			logger.Warn().Err(err).Msg("HTML sanitizer failed, storing empty body")
			htmlBody = ""
		}
	}
	textBody := message.Truncate(decoded.TextBody, p.MaxTextBody, message.TextTruncationNotice)
	htmlBody = message.Truncate(htmlBody, p.MaxHTMLBody, message.HTMLTruncationNotice)

	emailID := model.NewEmailID()
	email := &model.Email{
		InboxID:     inboxID,
		EmailID:     emailID,
		FromAddress: decoded.From,
		Subject:     decoded.Subject,
		TextBody:    textBody,
		HTMLBody:    htmlBody,
		ReceivedAt:  p.now().Unix(),
		Attachments: p.storeAttachments(ctx, inboxID, emailID, decoded.Attachments),
	}

	// Persisted.
	if err := p.Store.PutEmail(ctx, email); err != nil {
		return OutcomeFailed, fmt.Errorf("persist email %v/%v: %w", inboxID, emailID, err)
	}
	logger.Info().Str("email", emailID).Int("attachments", len(email.Attachments)).
		Msg("Message persisted")
	return OutcomePersisted, nil
}
