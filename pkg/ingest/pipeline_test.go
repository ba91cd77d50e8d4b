package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easytempinbox/easytempinbox/pkg/ingest"
	"github.com/easytempinbox/easytempinbox/pkg/message"
	"github.com/easytempinbox/easytempinbox/pkg/model"
	"github.com/easytempinbox/easytempinbox/pkg/policy"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
	"github.com/easytempinbox/easytempinbox/pkg/test"
)

const rawKey = "inbound/raw-message.eml"

func testPipeline(quota int) (*ingest.Pipeline, *test.StoreStub, *test.BlobStub) {
	store := test.NewStore()
	blob := test.NewBlob()
	return &ingest.Pipeline{
		Store:       store,
		Blob:        blob,
		Lifecycle:   &policy.Lifecycle{Store: store, Quota: quota},
		MaxTextBody: 100 * 1024,
		MaxHTMLBody: 200 * 1024,
	}, store, blob
}

func stage(t *testing.T, blob *test.BlobStub, raw string) {
	t.Helper()
	err := blob.Blob.Put(context.Background(), rawKey, []byte(raw), "message/rfc822", nil)
	require.NoError(t, err)
}

// deliverableMessage builds a multipart message addressed to the given inbox,
// with active HTML content and one attachment.
func deliverableMessage(to string) string {
	return strings.Join([]string{
		"From: sender@example.com",
		"To: " + to,
		"Subject: Greetings",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="MIXED"`,
		"",
		"--MIXED",
		"Content-Type: text/plain",
		"",
		"hello",
		"--MIXED",
		"Content-Type: text/html",
		"",
		"<script>alert(1)</script><p>hi</p>",
		"--MIXED",
		"Content-Type: application/octet-stream",
		`Content-Disposition: attachment; filename="notes.txt"`,
		"",
		"0123456789",
		"--MIXED--",
		"",
	}, "\r\n")
}

func TestProcessPersisted(t *testing.T) {
	p, store, blob := testPipeline(50)
	store.AddInbox("abc12345", time.Hour)
	stage(t, blob, deliverableMessage("abc12345@easytempinbox.com"))
	ctx := context.Background()

	outcome, err := p.Process(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomePersisted, outcome)

	emails, _, err := store.ListEmails(ctx, "abc12345", 10, "")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	email := emails[0]
	assert.Equal(t, "sender@example.com", email.FromAddress)
	assert.Equal(t, "Greetings", email.Subject)
	assert.Equal(t, "hello", email.TextBody)
	assert.Equal(t, "<p>hi</p>", email.HTMLBody, "script must be stripped before storage")
	assert.NotZero(t, email.ReceivedAt)

	require.Len(t, email.Attachments, 1)
	att := email.Attachments[0]
	assert.Equal(t, "notes.txt", att.Filename)
	assert.Equal(t, "application/octet-stream", att.ContentType)
	assert.Equal(t, int64(10), att.Size)
	assert.True(t, strings.HasPrefix(att.StorageKey, "attachments/abc12345/"+email.EmailID+"/"),
		"unexpected storage key %q", att.StorageKey)

	payload, err := blob.Get(ctx, att.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(payload))
	assert.Equal(t, 2, blob.Len(), "raw message plus one attachment")
}

func TestProcessUnknownInbox(t *testing.T) {
	p, store, blob := testPipeline(50)
	stage(t, blob, deliverableMessage("nothere1@easytempinbox.com"))
	ctx := context.Background()

	outcome, err := p.Process(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeDroppedInactive, outcome)

	count, err := store.CountEmails(ctx, "nothere1")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 1, blob.Len(), "no attachment blobs for a dropped message")
}

func TestProcessExpiredInbox(t *testing.T) {
	p, store, blob := testPipeline(50)
	store.AddInbox("abc12345", -time.Minute)
	stage(t, blob, deliverableMessage("abc12345@easytempinbox.com"))

	outcome, err := p.Process(context.Background(), rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeDroppedInactive, outcome)
}

func TestProcessQuotaFull(t *testing.T) {
	p, store, blob := testPipeline(1)
	store.AddInbox("abc12345", time.Hour)
	ctx := context.Background()
	require.NoError(t, store.PutEmail(ctx, &model.Email{InboxID: "abc12345", EmailID: "e1"}))
	stage(t, blob, deliverableMessage("abc12345@easytempinbox.com"))

	outcome, err := p.Process(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeDroppedQuota, outcome)

	count, err := store.CountEmails(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "quota drop must not add records")
}

func TestProcessDiscardsUnparseable(t *testing.T) {
	p, store, blob := testPipeline(50)
	store.AddInbox("abc12345", time.Hour)
	stage(t, blob, "")

	outcome, err := p.Process(context.Background(), rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeDiscarded, outcome)
}

func TestProcessMissingRawObject(t *testing.T) {
	p, _, _ := testPipeline(50)

	outcome, err := p.Process(context.Background(), rawKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrNotExist))
	assert.Equal(t, ingest.OutcomeFailed, outcome)
}

func TestProcessStoreFailures(t *testing.T) {
	boom := errors.New("store unavailable")
	testCases := []struct {
		name  string
		setup func(store *test.StoreStub)
	}{
		{
			name:  "inbox lookup",
			setup: func(store *test.StoreStub) { store.GetInboxErr = boom },
		},
		{
			name:  "quota count",
			setup: func(store *test.StoreStub) { store.CountEmailsErr = boom },
		},
		{
			name:  "email write",
			setup: func(store *test.StoreStub) { store.PutEmailErr = boom },
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, store, blob := testPipeline(50)
			store.AddInbox("abc12345", time.Hour)
			stage(t, blob, deliverableMessage("abc12345@easytempinbox.com"))
			tc.setup(store)

			outcome, err := p.Process(context.Background(), rawKey)
			require.Error(t, err)
			assert.True(t, errors.Is(err, boom))
			assert.Equal(t, ingest.OutcomeFailed, outcome, "store failures must be retryable")
		})
	}
}

// A failed attachment write drops that attachment only; the email is still
// persisted with the ones that made it.
func TestProcessAttachmentFailure(t *testing.T) {
	p, store, blob := testPipeline(50)
	store.AddInbox("abc12345", time.Hour)
	raw := strings.Join([]string{
		"From: sender@example.com",
		"To: abc12345@easytempinbox.com",
		"Subject: Two files",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="MIXED"`,
		"",
		"--MIXED",
		"Content-Type: text/plain",
		"",
		"body",
		"--MIXED",
		"Content-Type: text/plain",
		`Content-Disposition: attachment; filename="a.txt"`,
		"",
		"alpha",
		"--MIXED",
		"Content-Type: text/plain",
		`Content-Disposition: attachment; filename="b.txt"`,
		"",
		"bravo",
		"--MIXED--",
		"",
	}, "\r\n")
	stage(t, blob, raw)
	blob.FailPutContaining = "b.txt"
	blob.FailPutErr = errors.New("s3 unavailable")
	ctx := context.Background()

	outcome, err := p.Process(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomePersisted, outcome)

	emails, _, err := store.ListEmails(ctx, "abc12345", 10, "")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	require.Len(t, emails[0].Attachments, 1)
	assert.Equal(t, "a.txt", emails[0].Attachments[0].Filename)
}

func TestProcessTruncatesBodies(t *testing.T) {
	p, store, blob := testPipeline(50)
	p.MaxTextBody = 4
	p.MaxHTMLBody = 6
	store.AddInbox("abc12345", time.Hour)
	stage(t, blob, deliverableMessage("abc12345@easytempinbox.com"))
	ctx := context.Background()

	outcome, err := p.Process(ctx, rawKey)
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomePersisted, outcome)

	emails, _, err := store.ListEmails(ctx, "abc12345", 10, "")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "hell"+message.TextTruncationNotice, emails[0].TextBody)
	// The ceiling applies to the sanitized markup.
	assert.Equal(t, "<p>hi<"+message.HTMLTruncationNotice, emails[0].HTMLBody)
}

func TestOutcomeString(t *testing.T) {
	testCases := []struct {
		outcome ingest.Outcome
		want    string
	}{
		{ingest.OutcomeFailed, "failed"},
		{ingest.OutcomePersisted, "persisted"},
		{ingest.OutcomeDiscarded, "discarded"},
		{ingest.OutcomeDroppedInactive, "dropped-inactive"},
		{ingest.OutcomeDroppedQuota, "dropped-quota"},
	}
	for _, tc := range testCases {
		if got := tc.outcome.String(); got != tc.want {
			t.Errorf("Got %q, want: %q", got, tc.want)
		}
	}
}
