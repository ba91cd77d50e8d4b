// Package rest implements the REST API consumed by inbox clients.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/model"
	jsonmodel "github.com/easytempinbox/easytempinbox/pkg/rest/model"
	"github.com/easytempinbox/easytempinbox/pkg/policy"
	"github.com/easytempinbox/easytempinbox/pkg/server/web"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// RootV1 is the health check endpoint.
func RootV1(w http.ResponseWriter, _ *http.Request, _ *web.Context) error {
	return web.RenderJSON(w, map[string]string{"status": "ok", "service": "EasyTempInbox API"})
}

// InboxCreateV1 creates a new temporary inbox. The request body may carry a
// ttl in seconds; out of range values are rejected.
func InboxCreateV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	var jreq jsonmodel.JSONInboxRequestV1
	if err := json.NewDecoder(req.Body).Decode(&jreq); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil
	}
	ttl, err := policy.ResolveTTL(time.Duration(jreq.TTL)*time.Second, ctx.RootConfig.Inbox)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	inbox := model.NewInbox(ctx.RootConfig.Inbox.IDLength, ttl, time.Now())
	if err := ctx.Store.PutInbox(req.Context(), inbox); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}
	return web.RenderJSON(w, &jsonmodel.JSONInboxV1{
		ID:        inbox.ID,
		Address:   inbox.Address(ctx.RootConfig.Domain),
		ExpiresAt: inbox.ExpiresAt,
	})
}

// InboxStatusV1 renders the lightweight polling view of an inbox.
func InboxStatusV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	inboxID := ctx.Vars["inbox"]
	inbox, err := ctx.Store.GetInbox(req.Context(), inboxID)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		return fmt.Errorf("get inbox %v: %w", inboxID, err)
	}
	status := &jsonmodel.JSONInboxStatusV1{ID: inboxID}
	if inbox != nil {
		status.ExpiresAt = inbox.ExpiresAt
		if !inbox.Expired(time.Now()) {
			count, err := ctx.Store.CountEmails(req.Context(), inboxID)
			if err != nil {
				return fmt.Errorf("count emails %v: %w", inboxID, err)
			}
			status.Exists = true
			status.EmailCount = count
		}
	}
	return web.RenderJSON(w, status)
}

// EmailListV1 renders one page of an inbox listing, newest first. The
// response is 404 whether the inbox never existed or has expired.
func EmailListV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	inboxID := ctx.Vars["inbox"]
	active, err := ctx.Lifecycle.IsActive(req.Context(), inboxID)
	if err != nil {
		return fmt.Errorf("check inbox %v: %w", inboxID, err)
	}
	if !active {
		http.NotFound(w, req)
		return nil
	}
	limit := int32(defaultListLimit)
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			http.Error(w, fmt.Sprintf("limit must be 1-%d", maxListLimit), http.StatusBadRequest)
			return nil
		}
		limit = int32(n)
	}
	emails, nextKey, err := ctx.Store.ListEmails(
		req.Context(), inboxID, limit, req.URL.Query().Get("last_key"))
	if err != nil {
		return fmt.Errorf("list emails %v: %w", inboxID, err)
	}
	headers := make([]*jsonmodel.JSONEmailHeaderV1, len(emails))
	for i, email := range emails {
		headers[i] = &jsonmodel.JSONEmailHeaderV1{
			ID:              email.EmailID,
			From:            email.FromAddress,
			Subject:         email.Subject,
			ReceivedAt:      email.ReceivedAt,
			HasHTML:         email.HTMLBody != "",
			AttachmentCount: len(email.Attachments),
		}
	}
	return web.RenderJSON(w, &jsonmodel.JSONEmailListV1{
		Emails:  headers,
		Count:   len(headers),
		LastKey: nextKey,
	})
}

// EmailShowV1 renders a single email. Expired inboxes read as absent.
func EmailShowV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	email, found, err := lookupEmail(req, ctx)
	if err != nil {
		return err
	}
	if !found {
		http.NotFound(w, req)
		return nil
	}
	attachments := make([]*jsonmodel.JSONAttachmentV1, len(email.Attachments))
	for i, att := range email.Attachments {
		attachments[i] = &jsonmodel.JSONAttachmentV1{
			ID:          att.ID,
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Size:        att.Size,
		}
	}
	return web.RenderJSON(w, &jsonmodel.JSONEmailV1{
		ID:           email.EmailID,
		From:         email.FromAddress,
		Subject:      email.Subject,
		TextBody:     email.TextBody,
		HTMLBody:     email.HTMLBody,
		ReceivedAt:   email.ReceivedAt,
		LargeBodyURL: email.LargeBodyURL,
		Attachments:  attachments,
	})
}

// AttachmentLinkV1 resolves an attachment and returns a presigned download
// URL carrying the original filename.
func AttachmentLinkV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	email, found, err := lookupEmail(req, ctx)
	if err != nil {
		return err
	}
	var att *model.AttachmentMetadata
	if found {
		for i := range email.Attachments {
			if email.Attachments[i].ID == ctx.Vars["attachment"] {
				att = &email.Attachments[i]
				break
			}
		}
	}
	if att == nil {
		http.NotFound(w, req)
		return nil
	}
	url, err := ctx.Blob.PresignGet(
		req.Context(), att.StorageKey, att.Filename, ctx.RootConfig.Blob.PresignTTL)
	if err != nil {
		return fmt.Errorf("presign attachment %v: %w", att.ID, err)
	}
	return web.RenderJSON(w, &jsonmodel.JSONAttachmentLinkV1{
		DownloadURL: url,
		Filename:    att.Filename,
		ContentType: att.ContentType,
		Size:        att.Size,
	})
}

// lookupEmail fetches the requested email if its inbox is still active.
func lookupEmail(req *http.Request, ctx *web.Context) (*model.Email, bool, error) {
	inboxID := ctx.Vars["inbox"]
	active, err := ctx.Lifecycle.IsActive(req.Context(), inboxID)
	if err != nil {
		return nil, false, fmt.Errorf("check inbox %v: %w", inboxID, err)
	}
	if !active {
		return nil, false, nil
	}
	email, err := ctx.Store.GetEmail(req.Context(), inboxID, ctx.Vars["id"])
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get email %v/%v: %w", inboxID, ctx.Vars["id"], err)
	}
	return email, true, nil
}
