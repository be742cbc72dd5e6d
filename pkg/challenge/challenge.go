// Package challenge abstracts the anti-abuse token provider a submission
// controller consults before dispatching a payload. Protection is
// best-effort: a provider that never becomes ready degrades to an empty
// token instead of blocking the submission.
package challenge

import (
	"context"
	"time"
)

// DefaultCeiling bounds how long Acquire waits for provider readiness
// before degrading to an empty token.
const DefaultCeiling = 10 * time.Second

// Provider mints opaque proof-of-humanity tokens scoped to an action label.
// Ready returns a channel that is closed once the provider can mint tokens;
// a provider that fails to initialise simply never closes it.
type Provider interface {
	Ready() <-chan struct{}
	Execute(ctx context.Context, action string) (string, error)
}

// Starter is implemented by providers that load remote resources in the
// background before becoming ready. Start must be non-blocking and safe to
// call more than once.
type Starter interface {
	Start(ctx context.Context)
}

// AcquireOption customises a single Acquire call.
type AcquireOption func(*acquireConfig)

type acquireConfig struct {
	ceiling time.Duration
}

// WithCeiling overrides the readiness wait budget. Zero or negative values
// keep the default.
func WithCeiling(d time.Duration) AcquireOption {
	return func(cfg *acquireConfig) {
		if d > 0 {
			cfg.ceiling = d
		}
	}
}

// Acquire waits for the provider to become ready, bounded by the ceiling,
// then requests a token for the action. A nil provider or an exhausted
// ceiling yields an empty token with no error; provider failures and
// context cancellation propagate.
func Acquire(ctx context.Context, provider Provider, action string, options ...AcquireOption) (string, error) {
	cfg := acquireConfig{ceiling: DefaultCeiling}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if provider == nil {
		return "", nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timer := time.NewTimer(cfg.ceiling)
	defer timer.Stop()

	select {
	case <-provider.Ready():
		return provider.Execute(ctx, action)
	case <-timer.C:
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Static is a Provider that is ready immediately and returns a fixed token
// or error. It backs tests and air-gapped deployments.
type Static struct {
	Token string
	Err   error

	ready chan struct{}
}

// NewStatic constructs a ready Static provider minting the given token.
func NewStatic(token string) *Static {
	s := &Static{Token: token, ready: make(chan struct{})}
	close(s.ready)
	return s
}

// NewFailing constructs a ready Static provider whose Execute always fails.
func NewFailing(err error) *Static {
	s := NewStatic("")
	s.Err = err
	return s
}

// Ready reports immediate readiness.
func (s *Static) Ready() <-chan struct{} {
	if s.ready == nil {
		s.ready = make(chan struct{})
		close(s.ready)
	}
	return s.ready
}

// Execute returns the configured token or error.
func (s *Static) Execute(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Token, nil
}
