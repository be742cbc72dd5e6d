package site

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strings"

	"go.uber.org/zap"

	internalform "github.com/goliatone/go-formrelay/internal/form"
	"github.com/goliatone/go-formrelay/pkg/submission"
)

// fieldView is the template-facing shape of one declared field, with the
// HTML attributes precomputed from the validation rules.
type fieldView struct {
	Name        string
	Label       string
	InputType   string
	Textarea    bool
	Placeholder string
	Description string
	Attrs       string
}

// submitResponse is the JSON envelope POST /contact replies with.
type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reset   bool   `json:"reset"`
}

func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, name, nil)
	}
}

func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request) {
	def := s.controller.Definition()
	if def == nil {
		http.NotFound(w, r)
		return
	}

	s.renderPage(w, "contact", map[string]any{
		"form":        fieldViews(def),
		"form_name":   def.Name,
		"honeypot":    def.Honeypot,
		"token_field": def.TokenField,
	})
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseSubmission(r); err != nil {
		s.logger.Warn("malformed contact submission", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Message: "Could not read the submission.",
		})
		return
	}

	outcome, err := s.controller.Submit(r.Context(), r.PostForm)
	if errors.Is(err, submission.ErrSubmissionInFlight) {
		writeJSON(w, http.StatusTooManyRequests, submitResponse{
			Message: "A submission is already being processed.",
		})
		return
	}
	if err != nil {
		// The underlying cause stays in the logs; the response carries
		// only the generic status copy.
		s.logger.Error("contact submission failed",
			zap.String("reference", outcome.Reference),
			zap.Error(err),
		)
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success: outcome.Disposition == submission.Delivered || outcome.Disposition == submission.Trapped,
		Message: outcome.Status.Text,
		Reset:   outcome.ResetForm,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) renderPage(w http.ResponseWriter, name string, extra map[string]any) {
	data := map[string]any{
		"site_name":     s.siteName,
		"palette_style": s.palette.InlineStyle(),
		"stylesheets":   s.palette.Stylesheets,
		"status":        s.currentStatus(),
	}
	for key, value := range extra {
		data[key] = value
	}

	html, err := s.engine.Render(name, data)
	if err != nil {
		s.logger.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) currentStatus() map[string]any {
	state := s.controller.State()
	if state.LastStatus.Text == "" {
		return nil
	}
	return map[string]any{
		"text": state.LastStatus.Text,
		"kind": string(state.LastStatus.Kind),
	}
}

func parseSubmission(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return r.ParseMultipartForm(1 << 20)
	}
	return r.ParseForm()
}

func writeJSON(w http.ResponseWriter, code int, body submitResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// fieldViews flattens the declared fields into template-ready rows.
func fieldViews(def *internalform.Definition) []fieldView {
	views := make([]fieldView, 0, len(def.Fields))
	for _, field := range def.Fields {
		view := fieldView{
			Name:        field.Name,
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Description: field.Description,
			InputType:   inputType(field.Type),
			Textarea:    field.Type == internalform.FieldTypeTextarea,
			Attrs:       fieldAttrs(field),
		}
		if view.Label == "" {
			view.Label = field.Name
		}
		views = append(views, view)
	}
	return views
}

func inputType(t internalform.FieldType) string {
	switch t {
	case internalform.FieldTypeTextarea:
		return "text"
	case "":
		return "text"
	default:
		return string(t)
	}
}

// fieldAttrs emits the native validation attributes so browsers enforce the
// same rules the controller re-checks server side. Values are HTML-escaped,
// not Go-quoted: regex patterns keep their backslashes intact.
func fieldAttrs(field internalform.Field) string {
	var attrs []string
	if field.Required {
		attrs = append(attrs, "required")
	}
	for _, rule := range field.Rules {
		switch rule.Kind {
		case internalform.RulePattern:
			if expr := rule.Params["pattern"]; expr != "" {
				attrs = append(attrs, attr("pattern", expr))
			}
		case internalform.RuleMinLength:
			if value := rule.Params["value"]; value != "" {
				attrs = append(attrs, attr("minlength", value))
			}
		case internalform.RuleMaxLength:
			if value := rule.Params["value"]; value != "" {
				attrs = append(attrs, attr("maxlength", value))
			}
		case internalform.RuleMin:
			if value := rule.Params["value"]; value != "" {
				attrs = append(attrs, attr("min", value))
			}
		case internalform.RuleMax:
			if value := rule.Params["value"]; value != "" {
				attrs = append(attrs, attr("max", value))
			}
		}
	}
	return strings.Join(attrs, " ")
}

func attr(key, value string) string {
	return key + `="` + html.EscapeString(value) + `"`
}
