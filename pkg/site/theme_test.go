package site

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

type stubSelector struct {
	selection *theme.Selection
	err       error
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

func TestResolvePalette_NilSelectorFallsBack(t *testing.T) {
	palette, err := resolvePalette(nil, "acme", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if palette.Theme != "default" {
		t.Fatalf("expected default palette, got %q", palette.Theme)
	}
	if len(palette.CSSVars) == 0 {
		t.Fatalf("default palette has no tokens")
	}
}

func TestResolvePalette_FlattensManifest(t *testing.T) {
	manifest := &theme.Manifest{
		Name: "acme",
		Tokens: map[string]string{
			"accent": "#123456",
			"text":   "#000000",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"site.stylesheet": "theme.css",
				"site.logo":       "logo.svg",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"accent": "#654321",
				},
			},
		},
	}

	selector := &stubSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: manifest,
	}}

	palette, err := resolvePalette(selector, "acme", "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	wantVars := map[string]string{
		"--accent": "#654321",
		"--text":   "#000000",
	}
	if diff := cmp.Diff(wantVars, palette.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}

	wantSheets := []string{"/assets/themes/acme/theme.css"}
	if diff := cmp.Diff(wantSheets, palette.Stylesheets); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestPalette_InlineStyleIsDeterministic(t *testing.T) {
	palette := Palette{CSSVars: map[string]string{
		"--b": "2",
		"--a": "1",
	}}
	if got := palette.InlineStyle(); got != "--a: 1; --b: 2" {
		t.Fatalf("inline style mismatch: got %q", got)
	}
}
