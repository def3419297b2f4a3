// Package line implements push delivery through the LINE Messaging API.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"linewall/internal/config"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
)

const pushPath = "/v2/bot/message/push"

// maxErrorBodyBytes caps how much of an API error body ends up in logs.
const maxErrorBodyBytes = 512

// Client pushes messages into a user's LINE chat. One bounded call per
// push; retries belong to the caller.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logger.Logger
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []message `json:"messages"`
}

type message struct {
	Type               string `json:"type"`
	Text               string `json:"text,omitempty"`
	OriginalContentURL string `json:"originalContentUrl,omitempty"`
	PreviewImageURL    string `json:"previewImageUrl,omitempty"`
}

func New(cfg config.LineConfig, log *logger.Logger) *Client {
	timeout := cfg.PushTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		token:   cfg.ChannelAccessToken,
		http:    newHTTPClient(timeout),
		log:     log.WithComponent("line"),
	}
}

// newHTTPClient builds a client with conservative dial/TLS timeouts
// under the overall per-push budget.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// PushImage delivers an image by URL. The chat client only loads TLS
// media, so non-HTTPS URLs are rejected here, before any network call.
func (c *Client) PushImage(ctx context.Context, to, originalURL, previewURL string) error {
	if err := c.precheck(to); err != nil {
		return err
	}
	if previewURL == "" {
		previewURL = originalURL
	}
	if !isHTTPS(originalURL) {
		return errors.ValidationField("imageUrl", "image URL must be HTTPS")
	}
	if !isHTTPS(previewURL) {
		return errors.ValidationField("previewUrl", "preview URL must be HTTPS")
	}

	return c.post(ctx, pushRequest{
		To: to,
		Messages: []message{{
			Type:               "image",
			OriginalContentURL: originalURL,
			PreviewImageURL:    previewURL,
		}},
	})
}

// PushText delivers a plain text message.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	if err := c.precheck(to); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.ValidationField("text", "text is required")
	}

	return c.post(ctx, pushRequest{
		To:       to,
		Messages: []message{{Type: "text", Text: text}},
	})
}

func (c *Client) precheck(to string) error {
	if c.token == "" {
		return errors.NotConfigured("LINE push messaging")
	}
	if strings.TrimSpace(to) == "" {
		return errors.ValidationField("recipientId", "recipient id is required")
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload pushRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "line.push", "failed to encode push payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pushPath, bytes.NewReader(body))
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "line.push", "failed to build push request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeDeliveryFail, "line.push", "push request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		c.log.FromContext(ctx).Warn("push API rejected message",
			"status", res.StatusCode,
			"to", payload.To,
			"body", string(excerpt),
		)
		return errors.Newf(errors.CodeDeliveryFail, "push API returned status %d", res.StatusCode).
			WithField("status", res.StatusCode).
			WithField("body", string(excerpt))
	}

	c.log.FromContext(ctx).Info("message delivered", "to", payload.To)
	return nil
}

func isHTTPS(rawURL string) bool {
	return strings.HasPrefix(rawURL, "https://")
}
