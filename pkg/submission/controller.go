// Package submission hosts the relay's core: a controller bound to one form
// definition that filters bots, acquires a best-effort challenge token, and
// dispatches the payload to the ingestion API, reflecting the outcome into a
// status reporter.
package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrelay/internal/challenge/recaptcha"
	internalform "github.com/goliatone/go-formrelay/internal/form"
	"github.com/goliatone/go-formrelay/internal/ingest/web3forms"
	"github.com/goliatone/go-formrelay/pkg/analytics"
	"github.com/goliatone/go-formrelay/pkg/challenge"
	"github.com/goliatone/go-formrelay/pkg/ingest"
	"github.com/goliatone/go-formrelay/pkg/status"
)

// ErrSubmissionInFlight means a Submit call was refused because another one
// is still running on the same controller. The caller made no network
// request and no state changed.
var ErrSubmissionInFlight = errors.New("submission: already in flight")

// analyticsLabel is the fixed label reported with delivery events.
const analyticsLabel = "contact_form"

// Disposition classifies how a submission attempt ended.
type Disposition string

const (
	// Delivered means the ingestion API confirmed the submission.
	Delivered Disposition = "delivered"
	// Rejected means validation failed before any network activity.
	Rejected Disposition = "rejected"
	// Trapped means the honeypot caught an automated filler. The caller is
	// shown success while nothing was delivered.
	Trapped Disposition = "trapped"
	// Failed means token acquisition or delivery went wrong.
	Failed Disposition = "failed"
)

// Outcome is the terminal result of one Submit call.
type Outcome struct {
	Disposition Disposition
	Status      status.Message

	// ResetForm tells the presentation layer whether to clear the fields.
	// True only for Delivered and Trapped; failed submissions keep their
	// values for correction and retry.
	ResetForm bool

	// Issues carries field-level findings for Rejected outcomes.
	Issues []internalform.Issue

	// Reference correlates the outcome with server logs.
	Reference string
}

// State is the transient per-controller view mirrored to callers: whether a
// submission is in flight and the last status copy shown.
type State struct {
	Loading    bool
	LastStatus status.Message
}

// Controller binds one form definition to the relay pipeline. Each bound
// form gets its own isolated controller; nothing is shared between
// instances.
type Controller struct {
	def         *internalform.Definition
	provider    challenge.Provider
	providerSet bool
	client      ingest.Client
	reporter    status.Reporter
	sink        analytics.Sink
	policy      *bluemonday.Policy

	tokenBudget time.Duration

	startOnce sync.Once
	inFlight  atomic.Bool

	stateMu sync.Mutex
	state   State
}

// New constructs a Controller for the definition, applying defaults for any
// dependency not injected: a reCAPTCHA provider, a web3forms client, an
// in-memory status board, and the strict sanitiser policy. A nil definition
// yields a no-op controller whose Submit does nothing; a missing form is a
// tolerated condition, not an error to surface.
func New(def *internalform.Definition, options ...Option) *Controller {
	c := &Controller{
		def:         def,
		tokenBudget: challenge.DefaultCeiling,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	return c
}

func (c *Controller) applyDefaults() {
	if c.def == nil {
		return
	}
	_ = c.def.Normalize()

	if c.provider == nil && !c.providerSpecified() {
		c.provider = recaptcha.New()
	}
	if c.client == nil {
		c.client = web3forms.New()
	}
	if c.reporter == nil {
		c.reporter = status.NewBoard()
	}
	if c.policy == nil {
		c.policy = bluemonday.StrictPolicy()
	}
}

// providerSpecified reports whether WithChallengeProvider ran, including with
// an explicit nil to disable challenges.
func (c *Controller) providerSpecified() bool {
	return c.providerSet
}

// Start begins background loading of the challenge provider where the
// implementation supports it. Fire-and-forget: a provider that fails to load
// simply never becomes ready and submissions proceed without tokens.
// Callers that skip Start get it lazily on the first Submit.
func (c *Controller) Start(ctx context.Context) {
	if c == nil || c.def == nil {
		return
	}
	c.startOnce.Do(func() {
		if starter, ok := c.provider.(challenge.Starter); ok {
			starter.Start(ctx)
		}
	})
}

// Definition returns the bound definition, nil for a no-op controller.
func (c *Controller) Definition() *internalform.Definition {
	if c == nil {
		return nil
	}
	return c.def
}

// State returns a snapshot of the controller state.
func (c *Controller) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// Submit runs the full pipeline for one set of submitted values. At most one
// submission is in flight per controller; overlapping calls fail fast with
// ErrSubmissionInFlight. Whatever the path taken, the controller is left
// non-loading when Submit returns. The returned error carries the underlying
// cause for logging; the Outcome's status text is always safe to show.
func (c *Controller) Submit(ctx context.Context, values url.Values) (Outcome, error) {
	if c == nil || c.def == nil {
		return Outcome{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	// Entry points that never called Start still get the provider warming
	// before the token wait begins, instead of stalling the full budget.
	c.Start(ctx)

	reference := uuid.NewString()
	c.setState(State{})

	if issues := c.def.Validate(values); len(issues) > 0 {
		message := status.Error(c.def.Messages.Invalid)
		c.report(message)
		return Outcome{
			Disposition: Rejected,
			Status:      message,
			Issues:      issues,
			Reference:   reference,
		}, nil
	}

	// Honeypot: automated fillers tick the hidden checkbox. They are told
	// they succeeded so they do not retry or adapt, while nothing is
	// delivered and no analytics fire. Intentional deception, not a bug.
	if values.Get(c.def.Honeypot) != "" {
		message := status.Success(c.def.Messages.Success)
		c.report(message)
		return Outcome{
			Disposition: Trapped,
			Status:      message,
			ResetForm:   true,
			Reference:   reference,
		}, nil
	}

	c.setLoading(true)
	c.hideStatus()
	defer c.setLoading(false)

	token, err := challenge.Acquire(ctx, c.provider, c.def.Action,
		challenge.WithCeiling(c.tokenBudget))
	if err != nil {
		return c.fail(reference, fmt.Errorf("acquire challenge token: %w", err))
	}

	receipt, err := c.client.Submit(ctx, c.buildPayload(values, token))
	if err != nil {
		return c.fail(reference, fmt.Errorf("dispatch submission: %w", err))
	}
	if !receipt.Success {
		return c.fail(reference, fmt.Errorf("ingestion refused submission: %s", receipt.Message))
	}

	message := status.Success(c.def.Messages.Success)
	c.report(message)
	analytics.Dispatch(c.sink, analytics.EventLead, analytics.LeadParams(analyticsLabel))

	return Outcome{
		Disposition: Delivered,
		Status:      message,
		ResetForm:   true,
		Reference:   reference,
	}, nil
}

// buildPayload assembles the ordered multipart fields: declared fields in
// definition order (sanitised), the untripped honeypot, and the challenge
// token in its hidden field. An empty token still ships so the ingestion
// side sees a consistent shape.
func (c *Controller) buildPayload(values url.Values, token string) ingest.Payload {
	var payload ingest.Payload
	for _, field := range c.def.Fields {
		payload.Add(field.Name, c.policy.Sanitize(values.Get(field.Name)))
	}
	// Set, not Add: the synthetic relay values win even if a future
	// definition shape lets their names into the declared fields.
	payload.Set(c.def.Honeypot, "")
	payload.Set(c.def.TokenField, token)
	return payload
}

func (c *Controller) fail(reference string, cause error) (Outcome, error) {
	message := status.Error(c.def.Messages.Failure)
	c.report(message)
	return Outcome{
		Disposition: Failed,
		Status:      message,
		Reference:   reference,
	}, cause
}

func (c *Controller) report(message status.Message) {
	c.stateMu.Lock()
	c.state.LastStatus = message
	c.stateMu.Unlock()
	if c.reporter != nil {
		c.reporter.Show(message)
	}
}

func (c *Controller) hideStatus() {
	c.stateMu.Lock()
	c.state.LastStatus = status.Message{}
	c.stateMu.Unlock()
	if c.reporter != nil {
		c.reporter.Hide()
	}
}

func (c *Controller) setLoading(loading bool) {
	c.stateMu.Lock()
	c.state.Loading = loading
	c.stateMu.Unlock()
}

func (c *Controller) setState(state State) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}
