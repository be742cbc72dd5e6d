// Package status models the single shared message region a bound form
// reports outcomes into: one visible message at a time, success copy that
// fades after a fixed delay, error copy that persists until overwritten.
package status

import (
	"sync"
	"time"
)

// Kind classifies a status message.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is one piece of user-facing status copy.
type Message struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Success builds a success message.
func Success(text string) Message {
	return Message{Text: text, Kind: KindSuccess}
}

// Error builds an error message.
func Error(text string) Message {
	return Message{Text: text, Kind: KindError}
}

// Reporter receives status updates from a submission controller.
type Reporter interface {
	Show(Message)
	Hide()
}

// DefaultAutoHide is how long a success message stays visible on a Board.
const DefaultAutoHide = 5 * time.Second

// BoardOption customises a Board before construction.
type BoardOption func(*Board)

// WithAutoHide overrides the success auto-hide delay. Zero disables it.
func WithAutoHide(d time.Duration) BoardOption {
	return func(b *Board) {
		b.autoHide = d
	}
}

// Board is the reference Reporter: a thread-safe single-slot display. The
// newest message always wins; a success message schedules its own removal
// unless something else lands first.
type Board struct {
	mu       sync.Mutex
	autoHide time.Duration

	current Message
	visible bool
	gen     uint64
	timer   *time.Timer
}

var _ Reporter = (*Board)(nil)

// NewBoard constructs a Board applying any provided options.
func NewBoard(options ...BoardOption) *Board {
	b := &Board{autoHide: DefaultAutoHide}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Show displays the message, replacing whatever was visible.
func (b *Board) Show(message Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimerLocked()
	b.current = message
	b.visible = true
	b.gen++

	if message.Kind == KindSuccess && b.autoHide > 0 {
		gen := b.gen
		b.timer = time.AfterFunc(b.autoHide, func() {
			b.hideGeneration(gen)
		})
	}
}

// Hide clears the display.
func (b *Board) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimerLocked()
	b.current = Message{}
	b.visible = false
	b.gen++
}

// Current returns the visible message, if any.
func (b *Board) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.visible
}

// hideGeneration clears the display only if the message that scheduled the
// hide is still the one on screen.
func (b *Board) hideGeneration(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gen != gen {
		return
	}
	b.current = Message{}
	b.visible = false
	b.gen++
}

func (b *Board) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
