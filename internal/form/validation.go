package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// emailPattern mirrors the loose check browsers apply to type=email inputs.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate evaluates the submitted values against the definition: required
// flags first, then type-level checks, then the declared rules. Optional
// fields left blank are skipped, matching native form behaviour. Unknown
// submitted fields are ignored here; the payload stays opaque.
func (d *Definition) Validate(values url.Values) []Issue {
	if d == nil {
		return nil
	}

	var issues []Issue
	for _, field := range d.Fields {
		raw := strings.TrimSpace(values.Get(field.Name))

		if raw == "" {
			if field.Required {
				issues = append(issues, Issue{
					Field:   field.Name,
					Message: fmt.Sprintf("%s is required", fieldLabel(field)),
				})
			}
			continue
		}

		if issue, ok := checkType(field, raw); !ok {
			issues = append(issues, issue)
			continue
		}
		issues = append(issues, checkRules(field, raw)...)
	}
	return issues
}

func checkType(field Field, value string) (Issue, bool) {
	switch field.Type {
	case FieldTypeEmail:
		if !emailPattern.MatchString(value) {
			return Issue{Field: field.Name, Message: fmt.Sprintf("%s must be a valid email address", fieldLabel(field))}, false
		}
	case FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return Issue{Field: field.Name, Message: fmt.Sprintf("%s must be a number", fieldLabel(field))}, false
		}
	}
	return Issue{}, true
}

func checkRules(field Field, value string) []Issue {
	var issues []Issue
	for _, rule := range field.Rules {
		switch rule.Kind {
		case RulePattern:
			expr := rule.Params["pattern"]
			if expr == "" {
				continue
			}
			// Anchor the expression the way browsers treat the pattern
			// attribute: the whole value must match.
			re, err := regexp.Compile("^(?:" + expr + ")$")
			if err != nil || !re.MatchString(value) {
				issues = append(issues, Issue{
					Field:   field.Name,
					Message: fmt.Sprintf("%s has an invalid format", fieldLabel(field)),
				})
			}
		case RuleMinLength:
			if limit, ok := ruleValue(rule); ok && utf8.RuneCountInString(value) < int(limit) {
				issues = append(issues, Issue{
					Field:   field.Name,
					Message: fmt.Sprintf("%s must be at least %d characters", fieldLabel(field), int(limit)),
				})
			}
		case RuleMaxLength:
			if limit, ok := ruleValue(rule); ok && utf8.RuneCountInString(value) > int(limit) {
				issues = append(issues, Issue{
					Field:   field.Name,
					Message: fmt.Sprintf("%s must be at most %d characters", fieldLabel(field), int(limit)),
				})
			}
		case RuleMin:
			if limit, ok := ruleValue(rule); ok {
				if n, err := strconv.ParseFloat(value, 64); err == nil && n < limit {
					issues = append(issues, Issue{
						Field:   field.Name,
						Message: fmt.Sprintf("%s must be %v or more", fieldLabel(field), limit),
					})
				}
			}
		case RuleMax:
			if limit, ok := ruleValue(rule); ok {
				if n, err := strconv.ParseFloat(value, 64); err == nil && n > limit {
					issues = append(issues, Issue{
						Field:   field.Name,
						Message: fmt.Sprintf("%s must be %v or less", fieldLabel(field), limit),
					})
				}
			}
		}
	}
	return issues
}

func ruleValue(rule Rule) (float64, bool) {
	raw, ok := rule.Params["value"]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func fieldLabel(field Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}
