package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Email is a normalized, bounded record of one delivered message. It is
// written exactly once at ingestion and never mutated.
type Email struct {
	InboxID      string
	EmailID      string
	FromAddress  string
	Subject      string
	TextBody     string // possibly truncated
	HTMLBody     string // sanitized, possibly truncated
	ReceivedAt   int64  // epoch seconds
	LargeBodyURL string // reserved, not populated by the pipeline
	Attachments  []AttachmentMetadata
}

// AttachmentMetadata references an attachment payload held in blob storage.
// Filename and ContentType are sender-declared and untrusted; Size is
// measured from the decoded payload.
type AttachmentMetadata struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
}

// NewEmailID mints an identifier for a new email record.
func NewEmailID() string {
	return uuid.NewString()
}

// AttachmentKey computes the deterministic blob storage key for an
// attachment payload.
func AttachmentKey(inboxID, emailID, attachmentID, filename string) string {
	return fmt.Sprintf("attachments/%s/%s/%s/%s", inboxID, emailID, attachmentID, filename)
}
