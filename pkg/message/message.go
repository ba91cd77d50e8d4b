// Package message turns raw MIME messages into bounded, normalized content.
package message

// NoSubject is recorded when a message carries no Subject header.
const NoSubject = "(No Subject)"

// Decoded is the structural result of parsing one raw message: routing
// headers, at most one plain text and one HTML body, and the attachment
// parts in encounter order.
type Decoded struct {
	To       string
	From     string
	Subject  string
	TextBody string
	HTMLBody string

	Attachments []*AttachmentPart
}

// AttachmentPart is a decoded attachment payload awaiting blob storage.
// Filename and ContentType are sender-declared.
type AttachmentPart struct {
	Filename    string
	ContentType string
	Content     []byte
}
