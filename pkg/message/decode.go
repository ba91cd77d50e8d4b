package message

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime/v2"
	"github.com/rs/zerolog/log"
)

// Decode parses a raw RFC 5322 message. The part tree is walked depth-first:
// the first text/plain part becomes the text body, the first text/html part
// the HTML body, and attachment parts are collected in encounter order. A
// part that fails to decode degrades to empty content rather than failing
// the message; only an unparseable envelope is an error.
func Decode(raw []byte) (*Decoded, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	d := &Decoded{
		To:      env.GetHeader("To"),
		From:    env.GetHeader("From"),
		Subject: env.GetHeader("Subject"),
	}
	if d.Subject == "" {
		d.Subject = NoSubject
	}
	for _, e := range env.Errors {
		log.Debug().Str("module", "message").Str("name", e.Name).Str("detail", e.Detail).
			Msg("Envelope defect")
	}
	walk(env.Root, func(p *enmime.Part) {
		d.classify(p)
	})
	return d, nil
}

// walk visits every part of the tree in depth-first order, root first. A
// non-multipart message is a single-node tree, so the same classification
// covers both shapes.
func walk(p *enmime.Part, visit func(*enmime.Part)) {
	if p == nil {
		return
	}
	visit(p)
	for child := p.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

// classify routes one leaf part into the decoded result. Attachment
// disposition wins over content type; first match wins for each body slot.
func (d *Decoded) classify(p *enmime.Part) {
	if strings.HasPrefix(p.ContentType, "multipart/") {
		return
	}
	if isAttachment(p) {
		if len(p.Content) == 0 {
			// Payload failed to decode; exclude just this attachment.
			log.Warn().Str("module", "message").Str("filename", p.FileName).
				Msg("Skipping attachment with undecodable payload")
			return
		}
		d.Attachments = append(d.Attachments, &AttachmentPart{
			Filename:    p.FileName,
			ContentType: p.ContentType,
			Content:     p.Content,
		})
		return
	}
	switch p.ContentType {
	case "text/plain":
		if d.TextBody == "" {
			d.TextBody = string(p.Content)
		}
	case "text/html":
		if d.HTMLBody == "" {
			d.HTMLBody = string(p.Content)
		}
	}
}

// isAttachment reports whether a part should be treated as an attachment: an
// explicit attachment disposition, or inline with a filename present. A part
// with no resolvable filename is never an attachment.
func isAttachment(p *enmime.Part) bool {
	if p.FileName == "" {
		return false
	}
	return p.Disposition == "attachment" || p.Disposition == "inline"
}
