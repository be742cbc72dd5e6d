package form

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAction scopes challenge tokens when a definition omits one.
	DefaultAction = "submit"

	// DefaultHoneypot is the conventional bot-check field name.
	DefaultHoneypot = "botcheck"

	// DefaultTokenField is the hidden input the challenge token rides in.
	DefaultTokenField = "recaptchaResponse"
)

const (
	defaultSuccessMessage = "Thanks for reaching out. We'll get back to you soon."
	defaultFailureMessage = "Something went wrong. Please try again or email us directly."
	defaultInvalidMessage = "Please fill in all required fields."
)

var (
	errDefinitionNil   = errors.New("form: definition is nil")
	errDefinitionEmpty = errors.New("form: definition has no fields")
)

// Parse decodes a YAML (or JSON, which YAML subsumes) definition document and
// normalises it, applying the package defaults for omitted relay fields.
func Parse(data []byte) (*Definition, error) {
	if len(data) == 0 {
		return nil, errors.New("form: definition document is empty")
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("form: decode definition: %w", err)
	}
	if err := def.Normalize(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Normalize fills defaults and verifies the definition is internally
// consistent. It is idempotent; loaders and constructors both call it.
func (d *Definition) Normalize() error {
	if d == nil {
		return errDefinitionNil
	}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		d.Name = "contact"
	}
	if d.Action = strings.TrimSpace(d.Action); d.Action == "" {
		d.Action = DefaultAction
	}
	if d.Honeypot = strings.TrimSpace(d.Honeypot); d.Honeypot == "" {
		d.Honeypot = DefaultHoneypot
	}
	if d.TokenField = strings.TrimSpace(d.TokenField); d.TokenField == "" {
		d.TokenField = DefaultTokenField
	}
	if d.Messages.Success == "" {
		d.Messages.Success = defaultSuccessMessage
	}
	if d.Messages.Failure == "" {
		d.Messages.Failure = defaultFailureMessage
	}
	if d.Messages.Invalid == "" {
		d.Messages.Invalid = defaultInvalidMessage
	}

	if len(d.Fields) == 0 {
		return errDefinitionEmpty
	}

	seen := make(map[string]struct{}, len(d.Fields)+2)
	seen[d.Honeypot] = struct{}{}
	seen[d.TokenField] = struct{}{}

	for i := range d.Fields {
		field := &d.Fields[i]
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return fmt.Errorf("form: field %d has no name", i)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("form: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}

		if field.Type == "" {
			field.Type = FieldTypeText
		}
		if !knownFieldType(field.Type) {
			return fmt.Errorf("form: field %q has unsupported type %q", field.Name, field.Type)
		}
		for _, rule := range field.Rules {
			if !knownRuleKind(rule.Kind) {
				return fmt.Errorf("form: field %q has unsupported rule %q", field.Name, rule.Kind)
			}
		}
	}

	return nil
}

// FieldByName returns the named visible field, if declared.
func (d *Definition) FieldByName(name string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func knownFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypePhone, FieldTypeNumber,
		FieldTypeTextarea, FieldTypeCheckbox, FieldTypeHidden:
		return true
	default:
		return false
	}
}

func knownRuleKind(kind string) bool {
	switch kind {
	case RuleMin, RuleMax, RuleMinLength, RuleMaxLength, RulePattern:
		return true
	default:
		return false
	}
}
