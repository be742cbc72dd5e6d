package site_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formrelay/pkg/site"
)

func TestEngine_RendersWithInheritance(t *testing.T) {
	fsys := fstest.MapFS{
		"shell.tmpl": &fstest.MapFile{Data: []byte(
			`<main>{% block content %}{% endblock %}</main>`,
		)},
		"page.tmpl": &fstest.MapFile{Data: []byte(
			`{% extends "shell.tmpl" %}{% block content %}Hello {{ who }}{% endblock %}`,
		)},
	}

	engine, err := site.NewEngine(site.WithTemplatesFS(fsys))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	html, err := engine.Render("page", map[string]any{"who": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<main>Hello world</main>") {
		t.Fatalf("unexpected output: %q", html)
	}
}

func TestEngine_EscapesByDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"page.tmpl": &fstest.MapFile{Data: []byte(`{{ value }}`)},
	}

	engine, err := site.NewEngine(site.WithTemplatesFS(fsys))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	html, err := engine.Render("page", map[string]any{"value": `<script>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("value was not escaped: %q", html)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine, err := site.NewEngine(site.WithTemplatesFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Render("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := site.NewEngine(); err == nil {
		t.Fatalf("expected error when no template source is configured")
	}
}

func TestEngine_EmbeddedBundleLoads(t *testing.T) {
	engine, err := site.NewEngine(site.WithTemplatesFS(site.TemplatesFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for _, page := range []string{"landing", "privacy", "terms"} {
		if _, err := engine.Render(page, map[string]any{"site_name": "Acme"}); err != nil {
			t.Fatalf("render %s: %v", page, err)
		}
	}
}
