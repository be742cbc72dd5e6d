package formrelay

import (
	"context"
	"net/url"

	"github.com/goliatone/go-formrelay/pkg/challenge"
	"github.com/goliatone/go-formrelay/pkg/form"
	"github.com/goliatone/go-formrelay/pkg/ingest"
	"github.com/goliatone/go-formrelay/pkg/site"
	"github.com/goliatone/go-formrelay/pkg/status"
	"github.com/goliatone/go-formrelay/pkg/submission"
	theme "github.com/goliatone/go-theme"
)

// Definition describes a contact form: its fields, honeypot, and copy. Alias
// exported via the root package for convenience.
type Definition = form.Definition

// Field is a single declarable form field.
type Field = form.Field

// Issue reports a per-field validation failure.
type Issue = form.Issue

// Outcome summarises a finished submission attempt.
type Outcome = submission.Outcome

// Disposition classifies how a submission attempt ended.
type Disposition = submission.Disposition

// Disposition values re-exported for callers switching on outcomes.
const (
	Delivered = submission.Delivered
	Rejected  = submission.Rejected
	Trapped   = submission.Trapped
	Failed    = submission.Failed
)

// Message is a user-facing status notice.
type Message = status.Message

// Receipt is the ingest endpoint's answer to a delivery.
type Receipt = ingest.Receipt

// Provider supplies challenge tokens for protected submissions.
type Provider = challenge.Provider

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one is still running.
var ErrSubmissionInFlight = submission.ErrSubmissionInFlight

// New constructs a submission controller for the given form definition,
// mirroring submission.New. It is the simplest entry point for callers that
// want a working contact pipeline with the default reCAPTCHA and web3forms
// wiring.
func New(def *Definition, options ...submission.Option) *submission.Controller {
	return submission.New(def, options...)
}

// Submit builds a controller for the definition and runs one submission
// through the full pipeline. It is the one-call path for programmatic sends;
// callers that submit repeatedly should hold on to a controller instead.
func Submit(ctx context.Context, def *Definition, values url.Values, options ...submission.Option) (Outcome, error) {
	return submission.New(def, options...).Submit(ctx, values)
}

// DefaultContact returns the built-in name/email/phone/message definition.
func DefaultContact() *Definition {
	return form.DefaultContact()
}

// WithChallengeProvider overrides or disables the challenge token provider.
func WithChallengeProvider(provider challenge.Provider) submission.Option {
	return submission.WithChallengeProvider(provider)
}

// WithIngestClient overrides the delivery client.
func WithIngestClient(client ingest.Client) submission.Option {
	return submission.WithIngestClient(client)
}

// WithReporter overrides the status reporter.
func WithReporter(reporter status.Reporter) submission.Option {
	return submission.WithReporter(reporter)
}

// SiteConfig aliases the site server configuration.
type SiteConfig = site.Config

// SiteOption customises the site server before construction.
type SiteOption = site.Option

// NewSite constructs the marketing site server that hosts the contact form.
func NewSite(cfg SiteConfig, options ...SiteOption) (*site.Server, error) {
	return site.NewServer(cfg, options...)
}

// WithThemeSelector passes a go-theme selector through to the site server so
// theme/variant choices resolve into the page palette.
func WithThemeSelector(selector theme.ThemeSelector) SiteOption {
	return site.WithThemeSelector(selector)
}
