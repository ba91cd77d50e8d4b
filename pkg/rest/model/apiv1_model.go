// Package model defines the JSON types served by the REST API.
package model

// JSONInboxRequestV1 is the optional body of an inbox creation request.
type JSONInboxRequestV1 struct {
	TTL int64 `json:"ttl"` // seconds; 0 selects the default
}

// JSONInboxV1 is returned from inbox creation.
type JSONInboxV1 struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	ExpiresAt int64  `json:"expires_at"`
}

// JSONInboxStatusV1 is the lightweight polling view of an inbox. Exists is
// false for missing and for expired inboxes alike.
type JSONInboxStatusV1 struct {
	ID         string `json:"id"`
	Exists     bool   `json:"exists"`
	ExpiresAt  int64  `json:"expires_at"`
	EmailCount int    `json:"email_count"`
}

// JSONEmailHeaderV1 contains the summary data for one email.
type JSONEmailHeaderV1 struct {
	ID              string `json:"email_id"`
	From            string `json:"from_address"`
	Subject         string `json:"subject"`
	ReceivedAt      int64  `json:"received_at"`
	HasHTML         bool   `json:"has_html"`
	AttachmentCount int    `json:"attachment_count"`
}

// JSONEmailListV1 is one page of an inbox listing, newest first.
type JSONEmailListV1 struct {
	Emails  []*JSONEmailHeaderV1 `json:"emails"`
	Count   int                  `json:"count"`
	LastKey string               `json:"last_key,omitempty"`
}

// JSONEmailV1 contains the full detail of one email.
type JSONEmailV1 struct {
	ID           string              `json:"email_id"`
	From         string              `json:"from_address"`
	Subject      string              `json:"subject"`
	TextBody     string              `json:"text_body"`
	HTMLBody     string              `json:"html_body"`
	ReceivedAt   int64               `json:"received_at"`
	LargeBodyURL string              `json:"large_body_url,omitempty"`
	Attachments  []*JSONAttachmentV1 `json:"attachments"`
}

// JSONAttachmentV1 describes an attachment without exposing its storage key.
type JSONAttachmentV1 struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// JSONAttachmentLinkV1 carries a presigned attachment download URL.
type JSONAttachmentLinkV1 struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
