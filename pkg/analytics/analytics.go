// Package analytics defines the optional event sink a controller notifies
// on confirmed deliveries. Sinks are strictly fire-and-forget: a missing or
// misbehaving sink never changes a submission outcome.
package analytics

// Event names and parameters emitted by the submission controller.
const (
	EventLead = "generate_lead"

	ParamCategory = "event_category"
	ParamLabel    = "event_label"
)

// Sink receives analytics events.
type Sink interface {
	Event(name string, params map[string]string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(name string, params map[string]string)

// Event invokes the function.
func (f SinkFunc) Event(name string, params map[string]string) {
	if f != nil {
		f(name, params)
	}
}

// Nop returns a Sink that discards every event.
func Nop() Sink {
	return SinkFunc(func(string, map[string]string) {})
}

// Dispatch delivers an event, tolerating nil sinks and recovering a panicking
// implementation so the caller's flow is never affected.
func Dispatch(sink Sink, name string, params map[string]string) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	sink.Event(name, params)
}

// LeadParams builds the fixed parameter set reported with EventLead.
func LeadParams(label string) map[string]string {
	return map[string]string{
		ParamCategory: "Contact",
		ParamLabel:    label,
	}
}
