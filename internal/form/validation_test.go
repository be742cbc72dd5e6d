package form_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrelay/internal/form"
)

func testDefinition(t *testing.T) *form.Definition {
	t.Helper()

	def := &form.Definition{
		Name: "contact",
		Fields: []form.Field{
			{Name: "name", Type: form.FieldTypeText, Label: "Name", Required: true},
			{Name: "email", Type: form.FieldTypeEmail, Label: "Email", Required: true},
			{Name: "phone", Type: form.FieldTypePhone, Rules: []form.Rule{
				{Kind: form.RulePattern, Params: map[string]string{"pattern": `[0-9+\-() ]{7,}`}},
			}},
			{Name: "message", Type: form.FieldTypeTextarea, Label: "Message", Required: true, Rules: []form.Rule{
				{Kind: form.RuleMinLength, Params: map[string]string{"value": "10"}},
				{Kind: form.RuleMaxLength, Params: map[string]string{"value": "2000"}},
			}},
		},
	}
	if err := def.Normalize(); err != nil {
		t.Fatalf("normalize definition: %v", err)
	}
	return def
}

func TestValidate_RequiredFields(t *testing.T) {
	def := testDefinition(t)

	issues := def.Validate(url.Values{
		"email": {"ada@example.com"},
	})

	want := []form.Issue{
		{Field: "name", Message: "Name is required"},
		{Field: "message", Message: "Message is required"},
	}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Rules(t *testing.T) {
	def := testDefinition(t)

	cases := []struct {
		name   string
		values url.Values
		want   []form.Issue
	}{
		{
			name: "valid submission",
			values: url.Values{
				"name":    {"Ada Lovelace"},
				"email":   {"ada@example.com"},
				"message": {"I would like to discuss a project."},
			},
			want: nil,
		},
		{
			name: "bad email",
			values: url.Values{
				"name":    {"Ada"},
				"email":   {"not-an-email"},
				"message": {"I would like to discuss a project."},
			},
			want: []form.Issue{{Field: "email", Message: "Email must be a valid email address"}},
		},
		{
			name: "message too short",
			values: url.Values{
				"name":    {"Ada"},
				"email":   {"ada@example.com"},
				"message": {"hi"},
			},
			want: []form.Issue{{Field: "message", Message: "Message must be at least 10 characters"}},
		},
		{
			name: "phone pattern rejected",
			values: url.Values{
				"name":    {"Ada"},
				"email":   {"ada@example.com"},
				"phone":   {"call me"},
				"message": {"I would like to discuss a project."},
			},
			want: []form.Issue{{Field: "phone", Message: "phone has an invalid format"}},
		},
		{
			name: "optional blank field skipped",
			values: url.Values{
				"name":    {"Ada"},
				"email":   {"ada@example.com"},
				"phone":   {"   "},
				"message": {"I would like to discuss a project."},
			},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := def.Validate(tc.values)
			if diff := cmp.Diff(tc.want, issues); diff != "" {
				t.Fatalf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	def := &form.Definition{
		Fields: []form.Field{{Name: "email"}},
	}
	if err := def.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if def.Action != form.DefaultAction {
		t.Fatalf("action default mismatch: got %q", def.Action)
	}
	if def.Honeypot != form.DefaultHoneypot {
		t.Fatalf("honeypot default mismatch: got %q", def.Honeypot)
	}
	if def.TokenField != form.DefaultTokenField {
		t.Fatalf("token field default mismatch: got %q", def.TokenField)
	}
	if def.Fields[0].Type != form.FieldTypeText {
		t.Fatalf("field type default mismatch: got %q", def.Fields[0].Type)
	}
	if def.Messages.Invalid == "" || def.Messages.Success == "" || def.Messages.Failure == "" {
		t.Fatalf("messages not defaulted: %+v", def.Messages)
	}
}

func TestNormalize_Rejections(t *testing.T) {
	cases := []struct {
		name string
		def  *form.Definition
	}{
		{name: "no fields", def: &form.Definition{Name: "contact"}},
		{name: "unnamed field", def: &form.Definition{Fields: []form.Field{{Label: "Name"}}}},
		{name: "duplicate field", def: &form.Definition{Fields: []form.Field{
			{Name: "email"}, {Name: "email"},
		}}},
		{name: "field shadowing honeypot", def: &form.Definition{Fields: []form.Field{
			{Name: "botcheck"},
		}}},
		{name: "unknown type", def: &form.Definition{Fields: []form.Field{
			{Name: "when", Type: form.FieldType("datetime-local")},
		}}},
		{name: "unknown rule", def: &form.Definition{Fields: []form.Field{
			{Name: "email", Rules: []form.Rule{{Kind: "step"}}},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.def.Normalize(); err == nil {
				t.Fatalf("expected normalize to fail")
			}
		})
	}
}

func TestParse_YAML(t *testing.T) {
	doc := []byte(`
name: contact
action: submit
fields:
  - name: email
    type: email
    required: true
  - name: message
    type: textarea
    required: true
    rules:
      - kind: minLength
        params:
          value: "10"
messages:
  success: Got it!
`)

	def, err := form.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.Messages.Success != "Got it!" {
		t.Fatalf("success message mismatch: got %q", def.Messages.Success)
	}
	if def.Messages.Failure == "" {
		t.Fatalf("failure message default missing")
	}
	if got := len(def.Fields); got != 2 {
		t.Fatalf("expected 2 fields, got %d", got)
	}
	if def.Fields[1].Rules[0].Kind != form.RuleMinLength {
		t.Fatalf("rule kind mismatch: got %q", def.Fields[1].Rules[0].Kind)
	}
}
