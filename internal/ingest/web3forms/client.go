// Package web3forms implements the ingest.Client contract against the
// web3forms submission endpoint: multipart form data in, a JSON
// success/message envelope out.
package web3forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-formrelay/pkg/ingest"
)

// DefaultEndpoint is the public web3forms submission URL.
const DefaultEndpoint = "https://api.web3forms.com/submit"

// accessKeyField carries the site owner's web3forms key when configured.
const accessKeyField = "access_key"

const defaultRequestTimeout = 30 * time.Second

// Option customises a Client before construction.
type Option func(*Client)

// WithEndpoint overrides the submission URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithAccessKey injects the account access key as the first payload field.
func WithAccessKey(key string) Option {
	return func(c *Client) {
		c.accessKey = strings.TrimSpace(key)
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRequestTimeout bounds a single submission round trip.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Client posts multipart submissions to a web3forms-compatible endpoint.
type Client struct {
	endpoint  string
	accessKey string
	http      *http.Client
	timeout   time.Duration
}

var _ ingest.Client = (*Client)(nil)

// New constructs a Client applying any provided options.
func New(options ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		timeout:  defaultRequestTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Submit encodes the payload as multipart form data and posts it. Transport
// failures, non-2xx statuses, and unparsable bodies are errors; a parsed
// envelope with success false comes back as a non-error Receipt.
func (c *Client) Submit(ctx context.Context, payload ingest.Payload) (ingest.Receipt, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if payload.Len() == 0 {
		return ingest.Receipt{}, errors.New("web3forms: payload is empty")
	}

	body, contentType, err := c.encode(payload)
	if err != nil {
		return ingest.Receipt{}, err
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return ingest.Receipt{}, fmt.Errorf("web3forms: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ingest.Receipt{}, fmt.Errorf("web3forms: submit: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ingest.Receipt{}, errors.New("web3forms: unexpected status " + resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ingest.Receipt{}, fmt.Errorf("web3forms: read response: %w", err)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ingest.Receipt{}, fmt.Errorf("web3forms: decode response: %w", err)
	}

	return ingest.Receipt{Success: envelope.Success, Message: envelope.Message}, nil
}

func (c *Client) encode(payload ingest.Payload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if c.accessKey != "" {
		if err := writer.WriteField(accessKeyField, c.accessKey); err != nil {
			return nil, "", fmt.Errorf("web3forms: write access key: %w", err)
		}
	}
	for _, field := range payload.Fields() {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("web3forms: write field %q: %w", field.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("web3forms: finalise body: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
