package recaptcha_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-formrelay/internal/challenge/recaptcha"
	"github.com/goliatone/go-formrelay/pkg/challenge"
)

func TestProvider_StartClosesReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("render"); got != "site-key-1" {
			t.Errorf("render query mismatch: got %q", got)
		}
		_, _ = w.Write([]byte("/* recaptcha */"))
	}))
	defer server.Close()

	provider := recaptcha.New(
		recaptcha.WithSiteKey("site-key-1"),
		recaptcha.WithScriptURL(server.URL),
		recaptcha.WithHTTPClient(server.Client()),
	)
	provider.Start(context.Background())

	select {
	case <-provider.Ready():
	case <-time.After(5 * time.Second):
		t.Fatalf("provider never became ready")
	}
}

func TestProvider_FailedLoadStaysNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	provider := recaptcha.New(
		recaptcha.WithSiteKey("site-key-1"),
		recaptcha.WithScriptURL(server.URL),
		recaptcha.WithHTTPClient(server.Client()),
	)
	provider.Start(context.Background())

	// The bounded wait must still resolve, degrading to an empty token.
	token, err := challenge.Acquire(context.Background(), provider, "submit",
		challenge.WithCeiling(50*time.Millisecond))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token from unready provider, got %q", token)
	}
}

func TestProvider_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method mismatch: got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("sitekey"); got != "site-key-1" {
			t.Errorf("sitekey mismatch: got %q", got)
		}
		if got := r.PostForm.Get("action"); got != "submit" {
			t.Errorf("action mismatch: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-abc"}`))
	}))
	defer server.Close()

	provider := recaptcha.New(
		recaptcha.WithSiteKey("site-key-1"),
		recaptcha.WithExecuteURL(server.URL),
		recaptcha.WithHTTPClient(server.Client()),
	)

	token, err := provider.Execute(context.Background(), "submit")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("token mismatch: got %q", token)
	}
}

func TestProvider_ExecuteErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		wantSub string
	}{
		{
			name: "provider reported error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":"invalid site key"}`))
			},
			wantSub: "invalid site key",
		},
		{
			name: "empty token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
			wantSub: "no token",
		},
		{
			name: "unexpected status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad", http.StatusBadGateway)
			},
			wantSub: "unexpected status",
		},
		{
			name: "unparsable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			wantSub: "decode",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			provider := recaptcha.New(
				recaptcha.WithSiteKey("site-key-1"),
				recaptcha.WithExecuteURL(server.URL),
				recaptcha.WithHTTPClient(server.Client()),
			)

			_, err := provider.Execute(context.Background(), "submit")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestProvider_SiteKeyOptionWins(t *testing.T) {
	t.Setenv("RECAPTCHA_SITE_KEY", "env-key")

	if got := recaptcha.New(recaptcha.WithSiteKey("option-key")).SiteKey(); got != "option-key" {
		t.Fatalf("expected option key, got %q", got)
	}
	if got := recaptcha.New().SiteKey(); got != "env-key" {
		t.Fatalf("expected env key, got %q", got)
	}
}
