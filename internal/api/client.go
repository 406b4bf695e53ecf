// Package api provides the HTTP client adapter used to talk to the
// recipe backend. It attaches the base URL and common headers, logs every
// exchange, and normalizes every failure into an *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/platechef/internal/logger"
)

// Env var names and defaults for the backend location.
const (
	EnvBaseURL     = "PLATECHEF_API_URL"
	DefaultBaseURL = "http://localhost:8000"
)

// Header names set on every request.
const (
	HeaderRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers.Set(key, value) }
}

// Client performs requests against a single backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
	log     *logger.Logger
}

// NewClient creates a backend client. The default has no timeout; a call
// in flight ends when the backend answers, the transport fails, or ctx is
// cancelled.
func NewClient(baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		headers: make(http.Header),
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON performs a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// PostJSON sends body as JSON and decodes the response into out.
// A nil out discards the response body.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: marshal body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, contentTypeJSON, bytes.NewReader(data), out)
}

// PostMultipart uploads a single file as multipart/form-data under the
// given field name and decodes the response into out.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename, mimeType string, data []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(filename)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("api: create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("api: write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: close form: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, w.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(HeaderRequestID, reqID)

	c.log.Debug("api: %s %s (id=%s)", method, path, reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("api: %s %s failed: %v", method, path, err)
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("api: %s %s: read response: %v", method, path, err)
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Err: err}
	}

	c.log.Debug("api: %s %s -> %s in %s", method, path, resp.Status, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("api: %s %s: %s %s", method, path, resp.Status, truncate(string(respBody), 200))
		return &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: extractMessage(respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.log.Error("api: %s %s: malformed response: %v", method, path, err)
		return &Error{Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
