// Package client provides a basic REST client for the EasyTempInbox API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/rest/model"
)

// Client accesses the REST API v1.
type Client struct {
	client  *http.Client
	baseURL *url.URL
}

// New creates a Client given the base URL of a server, ex:
// "http://localhost:9000".
func New(baseURL string) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: parsedURL,
	}, nil
}

// CreateInbox requests a new inbox with the given TTL in seconds; zero
// selects the server default.
func (c *Client) CreateInbox(ctx context.Context, ttlSeconds int64) (*model.JSONInboxV1, error) {
	inbox := &model.JSONInboxV1{}
	err := c.doJSON(ctx, "POST", "/api/v1/inbox",
		&model.JSONInboxRequestV1{TTL: ttlSeconds}, inbox)
	if err != nil {
		return nil, err
	}
	return inbox, nil
}

// InboxStatus fetches the polling view of an inbox.
func (c *Client) InboxStatus(ctx context.Context, inboxID string) (*model.JSONInboxStatusV1, error) {
	status := &model.JSONInboxStatusV1{}
	uri := "/api/v1/inbox/" + url.PathEscape(inboxID) + "/status"
	if err := c.doJSON(ctx, "GET", uri, nil, status); err != nil {
		return nil, err
	}
	return status, nil
}

// ListEmails fetches one page of an inbox listing; lastKey resumes a prior
// page when non-empty.
func (c *Client) ListEmails(ctx context.Context, inboxID string, limit int, lastKey string) (*model.JSONEmailListV1, error) {
	list := &model.JSONEmailListV1{}
	uri := "/api/v1/inbox/" + url.PathEscape(inboxID) + "/emails"
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if lastKey != "" {
		query.Set("last_key", lastKey)
	}
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	if err := c.doJSON(ctx, "GET", uri, nil, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetEmail fetches the full detail of one email.
func (c *Client) GetEmail(ctx context.Context, inboxID, emailID string) (*model.JSONEmailV1, error) {
	email := &model.JSONEmailV1{}
	uri := "/api/v1/inbox/" + url.PathEscape(inboxID) + "/emails/" + url.PathEscape(emailID)
	if err := c.doJSON(ctx, "GET", uri, nil, email); err != nil {
		return nil, err
	}
	return email, nil
}

// AttachmentLink fetches a presigned download URL for an attachment.
func (c *Client) AttachmentLink(ctx context.Context, inboxID, emailID, attachmentID string) (*model.JSONAttachmentLinkV1, error) {
	link := &model.JSONAttachmentLinkV1{}
	uri := "/api/v1/inbox/" + url.PathEscape(inboxID) + "/emails/" +
		url.PathEscape(emailID) + "/attachments/" + url.PathEscape(attachmentID)
	if err := c.doJSON(ctx, "GET", uri, nil, link); err != nil {
		return nil, err
	}
	return link, nil
}

// doJSON performs an HTTP request against the API, optionally sending and
// receiving JSON bodies.
func (c *Client) doJSON(ctx context.Context, method, uri string, in, out interface{}) error {
	rel, err := url.Parse(uri)
	if err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(rel).String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%v %v: unexpected status %v: %s", method, uri, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
