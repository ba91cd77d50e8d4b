package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/easytempinbox/easytempinbox/pkg/message"
	"github.com/easytempinbox/easytempinbox/pkg/model"
)

// storeAttachments writes attachment payloads to blob storage concurrently
// and returns metadata for the ones that succeeded, in encounter order. A
// failed write drops only that attachment; the email itself is never
// rejected for it. The returned slice is composed only after every write has
// settled.
func (p *Pipeline) storeAttachments(
	ctx context.Context, inboxID, emailID string, parts []*message.AttachmentPart,
) []model.AttachmentMetadata {
	if len(parts) == 0 {
		return nil
	}
	stored := make([]*model.AttachmentMetadata, len(parts))
	var g errgroup.Group
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			id := uuid.NewString()
			key := model.AttachmentKey(inboxID, emailID, id, part.Filename)
			err := p.Blob.Put(ctx, key, part.Content, part.ContentType, map[string]string{
				"inbox_id":          inboxID,
				"email_id":          emailID,
				"original_filename": part.Filename,
			})
			if err != nil {
				log.Error().Str("module", "ingest").Str("inbox", inboxID).Str("email", emailID).
					Str("filename", part.Filename).Err(err).
					Msg("Failed to store attachment, dropping it from the email")
				return nil
			}
			stored[i] = &model.AttachmentMetadata{
				ID:          id,
				Filename:    part.Filename,
				ContentType: part.ContentType,
				Size:        int64(len(part.Content)),
				StorageKey:  key,
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; Wait is the settle barrier
	var metas []model.AttachmentMetadata
	for _, m := range stored {
		if m != nil {
			metas = append(metas, *m)
		}
	}
	return metas
}
