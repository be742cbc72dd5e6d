package form

// FieldType is the simplified enum for the input kinds a contact form uses.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeHidden   FieldType = "hidden"
)

const (
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
)

// Rule represents a single validation constraint applied to a field. Use the
// Rule* constants for the canonical kinds. Numeric bounds and length limits
// encode their threshold in Params["value"] while pattern rules keep the
// original expression in Params["pattern"]. Patterns are anchored when
// evaluated, matching the browser behaviour the definitions mirror.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field models an individual input inside a bound form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Required    bool              `json:"required" yaml:"required"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []Rule            `json:"rules,omitempty" yaml:"rules,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Messages holds the user-facing copy a controller reports for terminal
// outcomes. Empty entries fall back to the package defaults during
// normalisation.
type Messages struct {
	Success string `json:"success,omitempty" yaml:"success,omitempty"`
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
	Invalid string `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

// Definition is the top-level description of a bound form: its visible
// fields plus the two synthetic fields every relay submission carries (the
// honeypot checkbox and the hidden challenge-token input).
type Definition struct {
	// Name identifies the form; it doubles as the template anchor.
	Name string `json:"name" yaml:"name"`

	// Action is the label the challenge provider scopes tokens to.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// Honeypot names the hidden checkbox automated fillers tick.
	Honeypot string `json:"honeypot,omitempty" yaml:"honeypot,omitempty"`

	// TokenField names the hidden input the challenge token is injected into.
	TokenField string `json:"tokenField,omitempty" yaml:"tokenField,omitempty"`

	Fields   []Field  `json:"fields" yaml:"fields"`
	Messages Messages `json:"messages,omitempty" yaml:"messages,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Issue reports a single validation failure. Field is empty for
// definition-level problems.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
