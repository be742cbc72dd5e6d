// Package form exposes the contact-form definition model: the declared
// fields, their validation rules, and the synthetic relay fields (honeypot
// and challenge token) every submission carries.
package form

import internalform "github.com/goliatone/go-formrelay/internal/form"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalform.FieldType

const (
	FieldTypeText     = internalform.FieldTypeText
	FieldTypeEmail    = internalform.FieldTypeEmail
	FieldTypePhone    = internalform.FieldTypePhone
	FieldTypeNumber   = internalform.FieldTypeNumber
	FieldTypeTextarea = internalform.FieldTypeTextarea
	FieldTypeCheckbox = internalform.FieldTypeCheckbox
	FieldTypeHidden   = internalform.FieldTypeHidden
)

const (
	RuleMin       = internalform.RuleMin
	RuleMax       = internalform.RuleMax
	RuleMinLength = internalform.RuleMinLength
	RuleMaxLength = internalform.RuleMaxLength
	RulePattern   = internalform.RulePattern
)

const (
	DefaultAction     = internalform.DefaultAction
	DefaultHoneypot   = internalform.DefaultHoneypot
	DefaultTokenField = internalform.DefaultTokenField
)

type Rule = internalform.Rule
type Field = internalform.Field
type Messages = internalform.Messages
type Definition = internalform.Definition
type Issue = internalform.Issue

// Parse decodes and normalises a YAML definition document.
func Parse(data []byte) (*Definition, error) {
	return internalform.Parse(data)
}

// DefaultContact returns the built-in contact form: name, email, optional
// phone, and a message, already normalised with the standard relay fields.
func DefaultContact() *Definition {
	def := &Definition{
		Name: "contact",
		Fields: []Field{
			{Name: "name", Type: FieldTypeText, Label: "Name", Required: true, Placeholder: "Your name"},
			{Name: "email", Type: FieldTypeEmail, Label: "Email", Required: true, Placeholder: "you@example.com"},
			{Name: "phone", Type: FieldTypePhone, Label: "Phone", Placeholder: "Optional"},
			{Name: "message", Type: FieldTypeTextarea, Label: "Message", Required: true, Rules: []Rule{
				{Kind: RuleMinLength, Params: map[string]string{"value": "10"}},
				{Kind: RuleMaxLength, Params: map[string]string{"value": "2000"}},
			}},
		},
	}
	if err := def.Normalize(); err != nil {
		// The built-in definition is static; a failure here is a
		// programming error.
		panic("form: default contact definition: " + err.Error())
	}
	return def
}
