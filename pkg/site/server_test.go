package site_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-formrelay/pkg/challenge"
	"github.com/goliatone/go-formrelay/pkg/ingest"
	"github.com/goliatone/go-formrelay/pkg/site"
	"github.com/goliatone/go-formrelay/pkg/submission"
	"github.com/goliatone/go-formrelay/pkg/testsupport"
)

func newTestServer(t *testing.T, client ingest.Client) *site.Server {
	t.Helper()

	controller := submission.New(testsupport.ContactDefinition(),
		submission.WithIngestClient(client),
		submission.WithChallengeProvider(challenge.NewStatic("tok-abc")),
		submission.WithReporter(&testsupport.CaptureReporter{}),
	)

	server, err := site.NewServer(site.Config{
		Addr:     ":0",
		SiteName: "Acme Studio",
	}, site.WithController(controller))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server
}

func TestServer_Pages(t *testing.T) {
	server := newTestServer(t, &testsupport.RecordingClient{Receipt: ingest.Receipt{Success: true}})
	handler := server.Handler()

	cases := []struct {
		path    string
		wantSub string
	}{
		{path: "/", wantSub: "Acme Studio"},
		{path: "/privacy", wantSub: "Privacy Policy"},
		{path: "/terms", wantSub: "Terms of Service"},
		{path: "/contact", wantSub: "Contact us"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status mismatch: got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.wantSub) {
				t.Fatalf("page %s does not contain %q", tc.path, tc.wantSub)
			}
		})
	}
}

func TestServer_ContactPageCarriesRelayFields(t *testing.T) {
	server := newTestServer(t, &testsupport.RecordingClient{Receipt: ingest.Receipt{Success: true}})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `name="botcheck"`) {
		t.Fatalf("honeypot input missing from page")
	}
	if !strings.Contains(body, `name="recaptchaResponse"`) {
		t.Fatalf("token field missing from page")
	}
	if !strings.Contains(body, `required`) {
		t.Fatalf("native validation attributes missing from page")
	}
}

func TestServer_ContactSubmitSuccess(t *testing.T) {
	client := &testsupport.RecordingClient{Receipt: ingest.Receipt{Success: true}}
	server := newTestServer(t, client)

	values := url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"message": {"I would like to discuss a project."},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status mismatch: got %d", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Reset   bool   `json:"reset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !resp.Reset {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if client.Calls() != 1 {
		t.Fatalf("expected one dispatch, got %d", client.Calls())
	}
}

func TestServer_ContactSubmitValidationFailure(t *testing.T) {
	client := &testsupport.RecordingClient{Receipt: ingest.Receipt{Success: true}}
	server := newTestServer(t, client)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("email=ada%40example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status mismatch: got %d", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure response")
	}
	if resp.Message != "Please fill in all required fields." {
		t.Fatalf("message mismatch: got %q", resp.Message)
	}
	if client.Calls() != 0 {
		t.Fatalf("validation failures must not dispatch, got %d", client.Calls())
	}
}

func TestServer_StatusRegionReflectsLastOutcome(t *testing.T) {
	client := &testsupport.RecordingClient{Receipt: ingest.Receipt{Success: true}}
	server := newTestServer(t, client)
	handler := server.Handler()

	// Invalid submission: the error status persists across page loads.
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("email=ada%40example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `class="status error"`) {
		t.Fatalf("status region missing from page:\n%s", body)
	}
	if !strings.Contains(body, "Please fill in all required fields.") {
		t.Fatalf("status copy missing from page")
	}
}

func TestServer_RequiresAddr(t *testing.T) {
	if _, err := site.NewServer(site.Config{}); err == nil {
		t.Fatalf("expected error for missing address")
	}
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t, &testsupport.RecordingClient{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
