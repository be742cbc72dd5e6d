// Package testsupport provides canned definitions and scripted collaborators
// for exercising the relay pipeline without real providers or endpoints.
package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-formrelay/pkg/challenge"
	"github.com/goliatone/go-formrelay/pkg/form"
	"github.com/goliatone/go-formrelay/pkg/ingest"
	"github.com/goliatone/go-formrelay/pkg/status"
)

// ContactDefinition returns a normalised three-field contact form used
// across the test suites.
func ContactDefinition() *form.Definition {
	def := &form.Definition{
		Name: "contact",
		Fields: []form.Field{
			{Name: "name", Type: form.FieldTypeText, Label: "Name", Required: true},
			{Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true},
			{Name: "message", Type: form.FieldTypeTextarea, Label: "Message", Required: true},
		},
	}
	if err := def.Normalize(); err != nil {
		panic("testsupport: contact definition: " + err.Error())
	}
	return def
}

// RecordingClient is an ingest.Client that captures payloads and replays
// scripted receipts.
type RecordingClient struct {
	mu       sync.Mutex
	payloads []ingest.Payload

	Receipt ingest.Receipt
	Err     error
}

var _ ingest.Client = (*RecordingClient)(nil)

// Submit records the payload and returns the scripted result.
func (c *RecordingClient) Submit(_ context.Context, payload ingest.Payload) (ingest.Receipt, error) {
	c.mu.Lock()
	c.payloads = append(c.payloads, payload)
	c.mu.Unlock()

	if c.Err != nil {
		return ingest.Receipt{}, c.Err
	}
	return c.Receipt, nil
}

// Payloads returns a copy of everything submitted so far.
func (c *RecordingClient) Payloads() []ingest.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ingest.Payload, len(c.payloads))
	copy(out, c.payloads)
	return out
}

// Calls reports how many submissions reached the client.
func (c *RecordingClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

// BlockingClient is an ingest.Client that parks until released, for
// exercising in-flight behaviour.
type BlockingClient struct {
	Entered chan struct{}
	Release chan struct{}
	Receipt ingest.Receipt

	once sync.Once
	mu   sync.Mutex
	n    int
}

// NewBlockingClient constructs a BlockingClient with unbuffered gates.
func NewBlockingClient() *BlockingClient {
	return &BlockingClient{
		Entered: make(chan struct{}),
		Release: make(chan struct{}),
	}
}

var _ ingest.Client = (*BlockingClient)(nil)

// Submit signals entry, then blocks until released or the context ends.
func (c *BlockingClient) Submit(ctx context.Context, _ ingest.Payload) (ingest.Receipt, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()

	c.once.Do(func() { close(c.Entered) })

	select {
	case <-c.Release:
		return c.Receipt, nil
	case <-ctx.Done():
		return ingest.Receipt{}, ctx.Err()
	}
}

// Calls reports how many submissions reached the client.
func (c *BlockingClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// CaptureReporter records every status transition in order.
type CaptureReporter struct {
	mu     sync.Mutex
	shown  []status.Message
	hidden int
}

var _ status.Reporter = (*CaptureReporter)(nil)

// Show records the message.
func (r *CaptureReporter) Show(message status.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, message)
}

// Hide records the clear.
func (r *CaptureReporter) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden++
}

// Shown returns the recorded messages.
func (r *CaptureReporter) Shown() []status.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]status.Message, len(r.shown))
	copy(out, r.shown)
	return out
}

// Last returns the most recent message, if any.
func (r *CaptureReporter) Last() (status.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shown) == 0 {
		return status.Message{}, false
	}
	return r.shown[len(r.shown)-1], true
}

// Hidden reports how many times the region was cleared.
func (r *CaptureReporter) Hidden() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hidden
}

// CaptureSink records analytics events.
type CaptureSink struct {
	mu     sync.Mutex
	events []CapturedEvent
}

// CapturedEvent is one recorded analytics call.
type CapturedEvent struct {
	Name   string
	Params map[string]string
}

// Event records the call.
func (s *CaptureSink) Event(name string, params map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, CapturedEvent{Name: name, Params: params})
}

// Events returns the recorded calls.
func (s *CaptureSink) Events() []CapturedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedEvent, len(s.events))
	copy(out, s.events)
	return out
}

// NeverReadyProvider is a challenge.Provider that never becomes ready; its
// Execute counts invocations so tests can assert it was never reached.
type NeverReadyProvider struct {
	ready chan struct{}
	mu    sync.Mutex
	runs  int
}

// NewNeverReadyProvider constructs the provider.
func NewNeverReadyProvider() *NeverReadyProvider {
	return &NeverReadyProvider{ready: make(chan struct{})}
}

var _ challenge.Provider = (*NeverReadyProvider)(nil)

// Ready returns a channel that never closes.
func (p *NeverReadyProvider) Ready() <-chan struct{} { return p.ready }

// Execute counts invocations; it should stay at zero.
func (p *NeverReadyProvider) Execute(context.Context, string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs++
	return "", nil
}

// Executions reports how often Execute ran.
func (p *NeverReadyProvider) Executions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}
