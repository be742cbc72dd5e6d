package site

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Palette carries the resolved presentation tokens the page shell consumes:
// CSS custom properties derived from theme tokens plus any stylesheet URLs
// the manifest publishes.
type Palette struct {
	Theme       string
	Variant     string
	CSSVars     map[string]string
	Stylesheets []string
}

// defaultPalette is the built-in look used when no theme is configured or a
// configured theme cannot be resolved.
func defaultPalette() Palette {
	return Palette{
		Theme: "default",
		CSSVars: map[string]string{
			"--accent":         "#2563eb",
			"--background":     "#ffffff",
			"--muted":          "#6b7280",
			"--surface":        "#f8fafc",
			"--text":           "#111827",
			"--status-error":   "#b91c1c",
			"--status-success": "#15803d",
		},
	}
}

// resolvePalette asks the selector for the named theme/variant and flattens
// the manifest into a Palette. Variant tokens override base tokens.
func resolvePalette(selector theme.ThemeSelector, name, variant string) (Palette, error) {
	if selector == nil {
		return defaultPalette(), nil
	}

	selection, err := selector.Select(name, variant)
	if err != nil {
		return Palette{}, fmt.Errorf("site: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return defaultPalette(), nil
	}

	manifest := selection.Manifest
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}

	assets := manifest.Assets
	if variant != "" {
		if v, ok := manifest.Variants[variant]; ok {
			for key, value := range v.Tokens {
				tokens[key] = value
			}
			for key, value := range v.Assets.Files {
				if assets.Files == nil {
					assets.Files = map[string]string{}
				}
				assets.Files[key] = value
			}
		}
	}

	palette := Palette{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		CSSVars: make(map[string]string, len(tokens)),
	}
	for key, value := range tokens {
		palette.CSSVars["--"+key] = value
	}

	prefix := strings.TrimRight(assets.Prefix, "/")
	names := make([]string, 0, len(assets.Files))
	for key := range assets.Files {
		names = append(names, key)
	}
	sort.Strings(names)
	for _, key := range names {
		if !strings.HasSuffix(key, "stylesheet") {
			continue
		}
		file := assets.Files[key]
		if prefix != "" {
			file = prefix + "/" + strings.TrimLeft(file, "/")
		}
		palette.Stylesheets = append(palette.Stylesheets, file)
	}

	return palette, nil
}

// InlineStyle renders the palette as a style attribute value for the page
// shell, keys sorted for deterministic output.
func (p Palette) InlineStyle() string {
	if len(p.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p.CSSVars))
	for key := range p.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+p.CSSVars[key])
	}
	return strings.Join(parts, "; ")
}
