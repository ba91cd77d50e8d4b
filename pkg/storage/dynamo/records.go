package dynamo

import "github.com/easytempinbox/easytempinbox/pkg/model"

// Attribute names match the original table schema, so existing tables keep
// working; the mapping between records and domain types stays inside this
// package.

type inboxRecord struct {
	ID        string `dynamodbav:"id"`
	CreatedAt int64  `dynamodbav:"created_at"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

type emailRecord struct {
	InboxID      string             `dynamodbav:"inbox_id"`
	EmailID      string             `dynamodbav:"email_id"`
	From         string             `dynamodbav:"from"`
	Subject      string             `dynamodbav:"subject"`
	TextBody     string             `dynamodbav:"text_body"`
	HTMLBody     string             `dynamodbav:"html_body"`
	ReceivedAt   int64              `dynamodbav:"received_at"`
	LargeBodyURL string             `dynamodbav:"large_body_url,omitempty"`
	Attachments  []attachmentRecord `dynamodbav:"attachments,omitempty"`
}

type attachmentRecord struct {
	ID          string `dynamodbav:"id"`
	Filename    string `dynamodbav:"filename"`
	ContentType string `dynamodbav:"content_type"`
	Size        int64  `dynamodbav:"size"`
	StorageKey  string `dynamodbav:"s3_key"`
}

func toInboxRecord(in *model.Inbox) inboxRecord {
	return inboxRecord{ID: in.ID, CreatedAt: in.CreatedAt, ExpiresAt: in.ExpiresAt}
}

func (r inboxRecord) toModel() *model.Inbox {
	return &model.Inbox{ID: r.ID, CreatedAt: r.CreatedAt, ExpiresAt: r.ExpiresAt}
}

func toEmailRecord(e *model.Email) emailRecord {
	rec := emailRecord{
		InboxID:      e.InboxID,
		EmailID:      e.EmailID,
		From:         e.FromAddress,
		Subject:      e.Subject,
		TextBody:     e.TextBody,
		HTMLBody:     e.HTMLBody,
		ReceivedAt:   e.ReceivedAt,
		LargeBodyURL: e.LargeBodyURL,
	}
	for _, a := range e.Attachments {
		rec.Attachments = append(rec.Attachments, attachmentRecord{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			StorageKey:  a.StorageKey,
		})
	}
	return rec
}

func (r emailRecord) toModel() *model.Email {
	email := &model.Email{
		InboxID:      r.InboxID,
		EmailID:      r.EmailID,
		FromAddress:  r.From,
		Subject:      r.Subject,
		TextBody:     r.TextBody,
		HTMLBody:     r.HTMLBody,
		ReceivedAt:   r.ReceivedAt,
		LargeBodyURL: r.LargeBodyURL,
	}
	for _, a := range r.Attachments {
		email.Attachments = append(email.Attachments, model.AttachmentMetadata{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			StorageKey:  a.StorageKey,
		})
	}
	return email
}
