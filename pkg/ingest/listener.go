package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"github.com/easytempinbox/easytempinbox/pkg/config"
)

// Listener long-polls an SQS queue for S3 event notifications and feeds the
// referenced objects to the pipeline. A queue message is deleted on any
// terminal outcome and left for redelivery when a store failure interrupts
// processing.
type Listener struct {
	Client   *sqs.Client
	QueueURL string
	Pipeline *Pipeline
	Wait     int32
	Batch    int32
}

// NewListener builds a Listener with its own SQS client.
func NewListener(ctx context.Context, cfg config.Ingest, region string, pipeline *Pipeline) (*Listener, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("ingest queue URL not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Listener{
		Client:   sqs.NewFromConfig(awsCfg),
		QueueURL: cfg.QueueURL,
		Pipeline: pipeline,
		Wait:     cfg.WaitSeconds,
		Batch:    cfg.BatchMessages,
	}, nil
}

// Run polls until the context is canceled.
func (l *Listener) Run(ctx context.Context) error {
	log.Info().Str("module", "ingest").Str("queue", l.QueueURL).Msg("Ingest listener starting")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := l.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(l.QueueURL),
			MaxNumberOfMessages: l.Batch,
			WaitTimeSeconds:     l.Wait,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Str("module", "ingest").Err(err).Msg("SQS receive failed")
			time.Sleep(time.Second)
			continue
		}
		for _, msg := range out.Messages {
			l.handle(ctx, msg)
		}
	}
}

func (l *Listener) handle(ctx context.Context, msg types.Message) {
	refs, err := parseS3Event([]byte(aws.ToString(msg.Body)))
	if err != nil {
		// Not an S3 event; retrying cannot help.
		log.Error().Str("module", "ingest").Err(err).Msg("Undecodable queue message discarded")
		l.delete(ctx, msg)
		return
	}
	for _, ref := range refs {
		outcome, err := l.Pipeline.Process(ctx, ref.Key)
		if err != nil {
			// Leave the message on the queue; the delivery will be retried.
			log.Error().Str("module", "ingest").Str("bucket", ref.Bucket).Str("key", ref.Key).
				Err(err).Msg("Ingestion failed, leaving delivery for retry")
			return
		}
		log.Info().Str("module", "ingest").Str("key", ref.Key).Stringer("outcome", outcome).
			Msg("Delivery processed")
	}
	l.delete(ctx, msg)
}

func (l *Listener) delete(ctx context.Context, msg types.Message) {
	_, err := l.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(l.QueueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		log.Error().Str("module", "ingest").Err(err).Msg("SQS delete failed")
	}
}

// objectRef locates a staged raw message in blob storage.
type objectRef struct {
	Bucket string
	Key    string
}

// parseS3Event extracts object references from an S3 event notification.
// Object keys arrive URL-encoded in the event payload.
func parseS3Event(body []byte) ([]objectRef, error) {
	var event struct {
		Records []struct {
			S3 struct {
				Bucket struct {
					Name string `json:"name"`
				} `json:"bucket"`
				Object struct {
					Key string `json:"key"`
				} `json:"object"`
			} `json:"s3"`
		} `json:"Records"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode s3 event: %w", err)
	}
	if len(event.Records) == 0 {
		return nil, fmt.Errorf("s3 event contains no records")
	}
	refs := make([]objectRef, 0, len(event.Records))
	for _, rec := range event.Records {
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("decode object key %q: %w", rec.S3.Object.Key, err)
		}
		refs = append(refs, objectRef{Bucket: rec.S3.Bucket.Name, Key: key})
	}
	return refs, nil
}
