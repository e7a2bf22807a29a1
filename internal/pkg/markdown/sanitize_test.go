package markdown_test

import (
	"strings"
	"testing"

	"github.com/jfkcannabis/storefront/internal/pkg/markdown"
)

func TestSanitize_StripsScript(t *testing.T) {
	got := markdown.RenderSafe("**hi**<script>alert(1)</script>")
	if strings.Contains(got, "<script") || strings.Contains(got, "alert(1)</script>") {
		t.Errorf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "<strong>hi</strong>") {
		t.Errorf("expected bold to survive, got %q", got)
	}
}

func TestSanitize_StripsJavascriptLinks(t *testing.T) {
	got := markdown.RenderSafe("[click](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript URL survived: %q", got)
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	got := markdown.Sanitize(`<img src="/a.png" onerror="alert(1)">`)
	if strings.Contains(got, "onerror") {
		t.Errorf("event handler survived: %q", got)
	}
	if !strings.Contains(got, `src="/a.png"`) {
		t.Errorf("expected src to survive, got %q", got)
	}
}

func TestSanitize_KeepsRenderedMarkup(t *testing.T) {
	got := markdown.RenderSafe("# Deals\n- [menu](https://jfk.example/menu)\n- `CODE10`\n![banner](https://cdn.example/b.png)")
	for _, want := range []string{
		"<h1>Deals</h1>",
		"<ul><li>",
		`<a href="https://jfk.example/menu">menu</a>`,
		"<code>CODE10</code>",
		`src="https://cdn.example/b.png"`,
		`alt="banner"`,
		"max-width",
		"<br",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestSanitize_DropsForeignStyles(t *testing.T) {
	got := markdown.Sanitize(`<img src="/a.png" style="position:fixed">`)
	if strings.Contains(got, "position") {
		t.Errorf("foreign style survived: %q", got)
	}
}
