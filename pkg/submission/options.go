package submission

import (
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrelay/pkg/analytics"
	"github.com/goliatone/go-formrelay/pkg/challenge"
	"github.com/goliatone/go-formrelay/pkg/ingest"
	"github.com/goliatone/go-formrelay/pkg/status"
)

// Option customises a Controller before construction.
type Option func(*Controller)

// WithChallengeProvider injects the token provider. Passing nil disables
// challenge acquisition entirely: submissions ship an empty token without
// waiting.
func WithChallengeProvider(provider challenge.Provider) Option {
	return func(c *Controller) {
		c.provider = provider
		c.providerSet = true
	}
}

// WithIngestClient injects the ingestion API client.
func WithIngestClient(client ingest.Client) Option {
	return func(c *Controller) {
		if client != nil {
			c.client = client
		}
	}
}

// WithReporter injects the status reporter the controller writes outcomes to.
func WithReporter(reporter status.Reporter) Option {
	return func(c *Controller) {
		if reporter != nil {
			c.reporter = reporter
		}
	}
}

// WithAnalytics injects the optional sink notified on confirmed deliveries.
func WithAnalytics(sink analytics.Sink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// WithSanitizer overrides the policy applied to submitted values before
// dispatch.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(c *Controller) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// WithTokenBudget bounds how long a submission waits for challenge-provider
// readiness before proceeding without a token.
func WithTokenBudget(budget time.Duration) Option {
	return func(c *Controller) {
		if budget > 0 {
			c.tokenBudget = budget
		}
	}
}
