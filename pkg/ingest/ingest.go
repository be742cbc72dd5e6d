// Package ingest defines the contract with the third-party API that actually
// delivers form contents on the site owner's behalf. Payloads are opaque
// ordered field sets; the relay never inspects them beyond the fields it
// injects itself.
package ingest

import "context"

// FieldValue is one name/value pair of a multipart submission body.
type FieldValue struct {
	Name  string
	Value string
}

// Payload is an ordered collection of submission fields. Order is preserved
// so the multipart body mirrors the declared form layout.
type Payload struct {
	fields []FieldValue
}

// Add appends a field, keeping any existing entries with the same name.
func (p *Payload) Add(name, value string) {
	if name == "" {
		return
	}
	p.fields = append(p.fields, FieldValue{Name: name, Value: value})
}

// Set replaces the first field with the given name, or appends when absent.
// Later duplicates are dropped so injected fields stay single-valued.
func (p *Payload) Set(name, value string) {
	if name == "" {
		return
	}
	replaced := false
	kept := p.fields[:0]
	for _, field := range p.fields {
		if field.Name != name {
			kept = append(kept, field)
			continue
		}
		if !replaced {
			field.Value = value
			kept = append(kept, field)
			replaced = true
		}
	}
	p.fields = kept
	if !replaced {
		p.fields = append(p.fields, FieldValue{Name: name, Value: value})
	}
}

// Get returns the first value for the named field.
func (p *Payload) Get(name string) (string, bool) {
	for _, field := range p.fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Fields returns the ordered field list. The slice is a copy.
func (p *Payload) Fields() []FieldValue {
	if len(p.fields) == 0 {
		return nil
	}
	out := make([]FieldValue, len(p.fields))
	copy(out, p.fields)
	return out
}

// Len reports the number of fields.
func (p *Payload) Len() int {
	return len(p.fields)
}

// Receipt is the ingestion API's verdict. Success false is a delivery
// refusal, not a transport error; callers surface it through the generic
// failure path.
type Receipt struct {
	Success bool
	Message string
}

// Client submits payloads to an ingestion API.
type Client interface {
	Submit(ctx context.Context, payload Payload) (Receipt, error)
}
