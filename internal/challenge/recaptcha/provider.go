// Package recaptcha implements the challenge.Provider contract for
// invisible reCAPTCHA v3. Readiness is gated on a background fetch of the
// provider script; a fetch that never succeeds leaves the provider
// not-ready, which callers treat as a degrade-to-empty token rather than a
// failure.
//
// Token execution is a browser-side API in reCAPTCHA proper, so Execute
// talks to a deployment-provided relay endpoint that performs it and
// answers {"token": ..., "error": ...} JSON. The default execute URL is a
// placeholder; deployments point WithExecuteURL at their own relay.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formrelay/pkg/challenge"
)

const (
	defaultScriptURL  = "https://www.google.com/recaptcha/api.js"
	defaultExecuteURL = "https://www.google.com/recaptcha/api/execute"

	// defaultSiteKey is the built-in fallback used when neither an option
	// nor the environment supplies a key.
	defaultSiteKey = "6LdUFyUqAAAAAL9fOZcecvMOS5NbYPYZAkCCZDVU"

	// siteKeyEnvVar overrides the built-in key at deploy time.
	siteKeyEnvVar = "RECAPTCHA_SITE_KEY"

	defaultRequestTimeout = 10 * time.Second
)

// Option customises a Provider before construction.
type Option func(*config)

type config struct {
	siteKey    string
	scriptURL  string
	executeURL string
	http       *http.Client
	timeout    time.Duration
}

// WithSiteKey pins the site key, bypassing environment resolution.
func WithSiteKey(key string) Option {
	return func(cfg *config) {
		cfg.siteKey = strings.TrimSpace(key)
	}
}

// WithScriptURL overrides the provider script endpoint.
func WithScriptURL(rawURL string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(rawURL); trimmed != "" {
			cfg.scriptURL = trimmed
		}
	}
}

// WithExecuteURL overrides the token mint endpoint.
func WithExecuteURL(rawURL string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(rawURL); trimmed != "" {
			cfg.executeURL = trimmed
		}
	}
}

// WithHTTPClient injects the HTTP client used for both the script fetch and
// token requests.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		if client != nil {
			cfg.http = client
		}
	}
}

// WithRequestTimeout bounds individual provider requests.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// Provider mints reCAPTCHA tokens for a single site key.
type Provider struct {
	siteKey    string
	scriptURL  string
	executeURL string
	http       *http.Client
	timeout    time.Duration

	startOnce sync.Once
	ready     chan struct{}
}

// Both contracts are implemented: token minting and background loading.
var (
	_ challenge.Provider = (*Provider)(nil)
	_ challenge.Starter  = (*Provider)(nil)
)

// New constructs a Provider. The site key resolves from the option, then the
// RECAPTCHA_SITE_KEY environment variable, then the built-in default.
func New(options ...Option) *Provider {
	cfg := config{
		scriptURL:  defaultScriptURL,
		executeURL: defaultExecuteURL,
		timeout:    defaultRequestTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.siteKey == "" {
		cfg.siteKey = strings.TrimSpace(os.Getenv(siteKeyEnvVar))
	}
	if cfg.siteKey == "" {
		cfg.siteKey = defaultSiteKey
	}
	if cfg.http == nil {
		cfg.http = &http.Client{Timeout: cfg.timeout}
	}

	return &Provider{
		siteKey:    cfg.siteKey,
		scriptURL:  cfg.scriptURL,
		executeURL: cfg.executeURL,
		http:       cfg.http,
		timeout:    cfg.timeout,
		ready:      make(chan struct{}),
	}
}

// SiteKey returns the resolved site key.
func (p *Provider) SiteKey() string {
	return p.siteKey
}

// Start kicks off the background script fetch. It returns immediately; the
// Ready channel closes once the fetch succeeds. Failures are tolerated: the
// provider just never becomes ready. Safe to call repeatedly.
func (p *Provider) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		go p.load(ctx)
	})
}

// Ready exposes the readiness gate.
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Execute requests a token scoped to the action label.
func (p *Provider) Execute(ctx context.Context, action string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reqCtx := ctx
	var cancel context.CancelFunc
	if p.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	values := url.Values{}
	values.Set("sitekey", p.siteKey)
	values.Set("action", action)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.executeURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("recaptcha: build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("recaptcha: execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New("recaptcha: unexpected status " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("recaptcha: read execute response: %w", err)
	}

	var payload struct {
		Token string `json:"token"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("recaptcha: decode execute response: %w", err)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("recaptcha: provider error: %s", payload.Error)
	}
	if payload.Token == "" {
		return "", errors.New("recaptcha: provider returned no token")
	}
	return payload.Token, nil
}

// load fetches the provider script once; success closes the ready gate.
func (p *Provider) load(ctx context.Context) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if p.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.scriptURL+"?render="+url.QueryEscape(p.siteKey), nil)
	if err != nil {
		return
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}

	close(p.ready)
}
